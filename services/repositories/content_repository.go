package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/selection"
)

type ContentRepository struct {
	BaseRepository
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (ds *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return NewContentRepository(tx)
}

type candidateRow struct {
	model.Question
	TopicWeight   int
	SubjectWeight int
}

// FetchCandidates returns the randomized, weight-annotated candidate pool for
// a user. All exclusion predicates are ANDed into the one query:
// active question/topic/subject, no subject exclusions, the permanent
// ever-correct exclusion, and the freshness window over recently seen rows.
// Rows come back in random order so downstream ties carry no insertion bias.
func (ds *ContentRepository) FetchCandidates(
	userID string,
	filter selection.Filter,
	excludedSubjectIDs []string,
	avoidRecentDays int,
	limit int,
) ([]selection.Candidate, error) {
	query := ds.db.Table("questions").
		Select(`questions.*,
			COALESCE(topics.weightage, 10) AS topic_weight,
			COALESCE(subjects.weightage, 10) AS subject_weight`).
		Joins("JOIN topics ON topics.id = questions.topic_id").
		Joins("JOIN subjects ON subjects.id = topics.subject_id").
		Where("questions.is_active = ?", true).
		Where("topics.active_in_random = ?", true).
		Where("subjects.active_in_random = ?", true).
		Where(`NOT EXISTS (
			SELECT 1 FROM user_question_histories h
			WHERE h.user_id = ? AND h.question_id = questions.id AND h.times_correct > 0)`, userID)

	if avoidRecentDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -avoidRecentDays)
		query = query.Where(`NOT EXISTS (
			SELECT 1 FROM user_question_histories h
			WHERE h.user_id = ? AND h.question_id = questions.id AND h.last_seen_at >= ?)`, userID, cutoff)
	}

	if len(excludedSubjectIDs) > 0 {
		query = query.Where("subjects.id NOT IN ?", excludedSubjectIDs)
	}
	if len(filter.TopicIDs) > 0 {
		query = query.Where("questions.topic_id IN ?", filter.TopicIDs)
	}
	if len(filter.SubjectIDs) > 0 {
		query = query.Where("subjects.id IN ?", filter.SubjectIDs)
	}
	if filter.MinDifficulty > 0 {
		query = query.Where("questions.difficulty >= ?", filter.MinDifficulty)
	}

	var rows []candidateRow
	if err := query.Order("RANDOM()").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	candidates := make([]selection.Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = selection.Candidate{
			Question:      row.Question,
			TopicWeight:   row.TopicWeight,
			SubjectWeight: row.SubjectWeight,
		}
	}
	return candidates, nil
}

func (ds *ContentRepository) GetQuestionsByIDs(ids []string) ([]model.Question, error) {
	var questions []model.Question
	if err := ds.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (ds *ContentRepository) GetOptionsForQuestions(questionIDs []string) ([]model.AnswerOption, error) {
	var options []model.AnswerOption
	if err := ds.db.Where("question_id IN ?", questionIDs).
		Order("\"order\" ASC").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// GetCorrectOption returns the question's single correct option.
func (ds *ContentRepository) GetCorrectOption(questionID string) (*model.AnswerOption, error) {
	var option model.AnswerOption
	if err := ds.db.Where("question_id = ? AND is_correct = ?", questionID, true).
		First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (ds *ContentRepository) GetTopicsByIDs(ids []string) ([]model.Topic, error) {
	var topics []model.Topic
	if err := ds.db.Where("id IN ?", ids).Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// RecordQuestionSeen bumps the exposure history for one (user, question)
// pair. Counters are updated store-side so concurrent submissions never lose
// increments.
func (ds *ContentRepository) RecordQuestionSeen(userID, questionID string, correct bool) error {
	id, _ := uuid.NewV7()
	now := time.Now()

	correctDelta := 0
	if correct {
		correctDelta = 1
	}

	history := model.UserQuestionHistory{
		ID:           id.String(),
		UserID:       userID,
		QuestionID:   questionID,
		TimesSeen:    1,
		TimesCorrect: correctDelta,
		LastSeenAt:   &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"times_seen":    gorm.Expr("times_seen + 1"),
			"times_correct": gorm.Expr("times_correct + ?", correctDelta),
			"last_seen_at":  now,
			"updated_at":    now,
		}),
	}).Create(&history).Error
}

func (ds *ContentRepository) GetQuestionHistory(userID, questionID string) (*model.UserQuestionHistory, error) {
	var history model.UserQuestionHistory
	if err := ds.db.Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&history).Error; err != nil {
		return nil, err
	}
	return &history, nil
}
