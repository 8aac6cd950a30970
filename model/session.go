// model/session.go
package model

import (
	"time"
)

// PracticeSession is the timed practice lifecycle record. Status moves
// in_progress -> completed | abandoned, both terminal.
type PracticeSession struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	UserID             string     `json:"user_id" gorm:"not null;index"`
	Strategy           string     `json:"strategy" gorm:"not null"`
	Status             string     `json:"status" gorm:"not null;index;default:in_progress"`
	TotalQuestions     int        `json:"total_questions" gorm:"not null"`
	QuestionsAttempted int        `json:"questions_attempted" gorm:"default:0"`
	CorrectAnswers     int        `json:"correct_answers" gorm:"default:0"`
	WrongAnswers       int        `json:"wrong_answers" gorm:"default:0"`
	Accuracy           float64    `json:"accuracy" gorm:"default:0"`
	XPEarned           int        `json:"xp_earned" gorm:"default:0"`
	TimeSpentSeconds   int        `json:"time_spent_seconds" gorm:"default:0"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// SessionQuestion snapshots the sampled question set for a session in draw
// order, so the set survives later content edits.
type SessionQuestion struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	SessionID  string    `json:"session_id" gorm:"not null;uniqueIndex:idx_session_question"`
	QuestionID string    `json:"question_id" gorm:"not null;uniqueIndex:idx_session_question"`
	Order      int       `json:"order" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationship
	Question Question `json:"question" gorm:"foreignKey:QuestionID"`
}

// SessionAnswer rows are write-once; a second submission for the same
// (session, question) pair is rejected before insert.
type SessionAnswer struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	SessionID        string    `json:"session_id" gorm:"not null;uniqueIndex:idx_session_answer"`
	QuestionID       string    `json:"question_id" gorm:"not null;uniqueIndex:idx_session_answer"`
	SelectedOptionID *string   `json:"selected_option_id"`
	IsCorrect        bool      `json:"is_correct" gorm:"default:false"`
	TimeSpentSeconds int       `json:"time_spent_seconds" gorm:"default:0"`
	AnsweredAt       time.Time `json:"answered_at"`
	CreatedAt        time.Time `json:"created_at"`
}
