package repositories

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adaptiq-labs/practice_api/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&model.Subject{},
		&model.Topic{},
		&model.Question{},
		&model.AnswerOption{},
		&model.UserQuestionHistory{},
		&model.UserPreference{},
		&model.PracticeSession{},
		&model.SessionQuestion{},
		&model.SessionAnswer{},
		&model.UserStats{},
		&model.UserTopicProgress{},
		&model.StreakCalendar{},
		&model.Badge{},
		&model.UserBadge{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedContent creates one subject with the given topic weights and
// questionsPerTopic questions per topic, four options each, option 0 correct.
func seedContent(t *testing.T, db *gorm.DB, topicWeights []int, questionsPerTopic int) (subjectID string, topicIDs []string) {
	t.Helper()

	subjectID = "subj-1"
	weight := 10
	if err := db.Create(&model.Subject{ID: subjectID, Name: "History", Weightage: &weight, ActiveInRandom: true}).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}

	for ti, tw := range topicWeights {
		topicID := fmt.Sprintf("topic-%d", ti+1)
		w := tw
		topic := model.Topic{ID: topicID, SubjectID: subjectID, Name: fmt.Sprintf("Topic %d", ti+1), Weightage: &w, ActiveInRandom: true}
		if err := db.Create(&topic).Error; err != nil {
			t.Fatalf("seed topic: %v", err)
		}
		topicIDs = append(topicIDs, topicID)

		for qi := 0; qi < questionsPerTopic; qi++ {
			questionID := fmt.Sprintf("q-%d-%d", ti+1, qi+1)
			question := model.Question{
				ID:         questionID,
				TopicID:    topicID,
				Text:       fmt.Sprintf("Question %s", questionID),
				Difficulty: qi%5 + 1,
				IsActive:   true,
			}
			if err := db.Create(&question).Error; err != nil {
				t.Fatalf("seed question: %v", err)
			}
			for oi := 0; oi < 4; oi++ {
				opt := model.AnswerOption{
					ID:         fmt.Sprintf("%s-opt-%d", questionID, oi),
					QuestionID: questionID,
					Text:       fmt.Sprintf("Option %d", oi),
					IsCorrect:  oi == 0,
					Order:      oi + 1,
				}
				if err := db.Create(&opt).Error; err != nil {
					t.Fatalf("seed option: %v", err)
				}
			}
		}
	}
	return subjectID, topicIDs
}
