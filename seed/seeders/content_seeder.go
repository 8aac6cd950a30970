package seeders

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/adaptiq-labs/practice_api/model"
)

// ContentSeeder seeds a small demo question bank: subjects, topics, questions
// and their answer options. Existing rows are skipped by id, so reruns are
// safe.
type ContentSeeder struct {
	db *gorm.DB
}

func NewContentSeeder(db *gorm.DB) *ContentSeeder {
	return &ContentSeeder{db: db}
}

func (s *ContentSeeder) SeedContent() error {
	for _, subject := range s.getSubjects() {
		if err := s.createIfMissing(&model.Subject{}, subject.ID, &subject); err != nil {
			return err
		}
	}
	for _, topic := range s.getTopics() {
		if err := s.createIfMissing(&model.Topic{}, topic.ID, &topic); err != nil {
			return err
		}
	}
	for _, question := range s.getQuestions() {
		if err := s.createIfMissing(&model.Question{}, question.ID, &question); err != nil {
			return err
		}
	}
	for _, option := range s.getOptions() {
		if err := s.createIfMissing(&model.AnswerOption{}, option.ID, &option); err != nil {
			return err
		}
	}

	log.Println("Content seeding completed successfully")
	return nil
}

func (s *ContentSeeder) createIfMissing(probe interface{}, id string, row interface{}) error {
	err := s.db.Where("id = ?", id).First(probe).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	if err := s.db.Create(row).Error; err != nil {
		log.Printf("Error creating %T %s: %v", row, id, err)
		return err
	}
	return nil
}

func weightPtr(v int) *int { return &v }

func (s *ContentSeeder) getSubjects() []model.Subject {
	return []model.Subject{
		{ID: "subject-math", Name: "Mathematics", Weightage: weightPtr(20), ActiveInRandom: true},
		{ID: "subject-science", Name: "Science", Weightage: weightPtr(15), ActiveInRandom: true},
		{ID: "subject-history", Name: "History", Weightage: weightPtr(10), ActiveInRandom: true},
	}
}

func (s *ContentSeeder) getTopics() []model.Topic {
	return []model.Topic{
		{ID: "topic-algebra", SubjectID: "subject-math", Name: "Algebra", Weightage: weightPtr(20), ActiveInRandom: true},
		{ID: "topic-geometry", SubjectID: "subject-math", Name: "Geometry", Weightage: weightPtr(10), ActiveInRandom: true},
		{ID: "topic-physics", SubjectID: "subject-science", Name: "Physics", Weightage: weightPtr(15), ActiveInRandom: true},
		{ID: "topic-biology", SubjectID: "subject-science", Name: "Biology", Weightage: weightPtr(10), ActiveInRandom: true},
		{ID: "topic-ancient", SubjectID: "subject-history", Name: "Ancient History", Weightage: weightPtr(10), ActiveInRandom: true},
	}
}

type seedQuestion struct {
	topicID    string
	text       string
	difficulty int
	options    [4]string
	correct    int
}

func (s *ContentSeeder) questionBank() []seedQuestion {
	return []seedQuestion{
		{"topic-algebra", "Solve for x: 2x + 6 = 14", 1, [4]string{"4", "5", "6", "8"}, 0},
		{"topic-algebra", "Factor x^2 - 9", 2, [4]string{"(x-3)(x+3)", "(x-9)(x+1)", "(x-3)^2", "(x+3)^2"}, 0},
		{"topic-algebra", "What is the discriminant of x^2 + 4x + 1?", 3, [4]string{"12", "16", "8", "4"}, 0},
		{"topic-algebra", "Sum of the roots of 2x^2 - 8x + 3 = 0?", 4, [4]string{"4", "-4", "3/2", "8"}, 0},
		{"topic-geometry", "Interior angle sum of a hexagon?", 2, [4]string{"720", "540", "900", "360"}, 0},
		{"topic-geometry", "Area of a circle with radius 3?", 1, [4]string{"9π", "6π", "3π", "12π"}, 0},
		{"topic-geometry", "A triangle with sides 3, 4, 5 is?", 2, [4]string{"Right-angled", "Equilateral", "Obtuse", "Isosceles"}, 0},
		{"topic-physics", "Unit of force?", 1, [4]string{"Newton", "Joule", "Watt", "Pascal"}, 0},
		{"topic-physics", "Acceleration of free fall near Earth's surface?", 2, [4]string{"9.8 m/s^2", "8.9 m/s^2", "10.8 m/s^2", "6.7 m/s^2"}, 0},
		{"topic-physics", "Which law relates force, mass and acceleration?", 3, [4]string{"Newton's second", "Newton's first", "Newton's third", "Hooke's"}, 0},
		{"topic-biology", "Powerhouse of the cell?", 1, [4]string{"Mitochondria", "Nucleus", "Ribosome", "Golgi body"}, 0},
		{"topic-biology", "Molecule carrying genetic information?", 2, [4]string{"DNA", "ATP", "RNA polymerase", "Glucose"}, 0},
		{"topic-ancient", "Which civilization built the pyramids of Giza?", 1, [4]string{"Egyptian", "Roman", "Greek", "Persian"}, 0},
		{"topic-ancient", "The Code of Hammurabi originated in?", 4, [4]string{"Babylon", "Assyria", "Egypt", "Phoenicia"}, 0},
		{"topic-ancient", "Which empire was ruled by Ashoka?", 5, [4]string{"Maurya", "Gupta", "Mughal", "Chola"}, 0},
	}
}

func (s *ContentSeeder) getQuestions() []model.Question {
	bank := s.questionBank()
	questions := make([]model.Question, len(bank))
	for i, q := range bank {
		questions[i] = model.Question{
			ID:         fmt.Sprintf("question-%03d", i+1),
			TopicID:    q.topicID,
			Text:       q.text,
			Difficulty: q.difficulty,
			IsActive:   true,
		}
	}
	return questions
}

func (s *ContentSeeder) getOptions() []model.AnswerOption {
	bank := s.questionBank()
	var options []model.AnswerOption
	for i, q := range bank {
		questionID := fmt.Sprintf("question-%03d", i+1)
		for oi, text := range q.options {
			options = append(options, model.AnswerOption{
				ID:         fmt.Sprintf("%s-opt-%d", questionID, oi+1),
				QuestionID: questionID,
				Text:       text,
				IsCorrect:  oi == q.correct,
				Order:      oi + 1,
			})
		}
	}
	return options
}
