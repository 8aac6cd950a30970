// model/content.go
package model

import (
	"time"
)

// Subject groups topics and carries the selection weight applied to every
// question underneath it.
type Subject struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Weightage      *int      `json:"weightage"` // nil means the default weight of 10
	ActiveInRandom bool      `json:"active_in_random" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Topic struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	SubjectID      string    `json:"subject_id" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"not null"`
	Weightage      *int      `json:"weightage"`
	ActiveInRandom bool      `json:"active_in_random" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationship
	Subject Subject `json:"subject" gorm:"foreignKey:SubjectID"`
}

// Question carries no weight of its own; its effective selection weight is
// derived from topic and subject weightage at fetch time.
type Question struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	TopicID    string    `json:"topic_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	Difficulty int       `json:"difficulty" gorm:"default:1"` // 1-5
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationship
	Topic Topic `json:"topic" gorm:"foreignKey:TopicID"`
}

type AnswerOption struct {
	ID         string `json:"id" gorm:"primaryKey"`
	QuestionID string `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	Order      int    `json:"order"`
}

// UserQuestionHistory records every exposure of a question to a user. A row
// with TimesCorrect > 0 permanently removes the question from that user's
// candidate pool.
type UserQuestionHistory struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_question"`
	QuestionID   string     `json:"question_id" gorm:"not null;uniqueIndex:idx_user_question"`
	TimesSeen    int        `json:"times_seen" gorm:"default:0"`
	TimesCorrect int        `json:"times_correct" gorm:"default:0"`
	LastSeenAt   *time.Time `json:"last_seen_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserPreference stores per-user selection preferences. Missing rows and nil
// fields fall back to engine defaults when resolved.
type UserPreference struct {
	ID                          string    `json:"id" gorm:"primaryKey"`
	UserID                      string    `json:"user_id" gorm:"not null;uniqueIndex"`
	ExcludedSubjectIDs          StringArr `json:"excluded_subject_ids" gorm:"type:text"`
	PreferredSubjectIDs         StringArr `json:"preferred_subject_ids" gorm:"type:text"`
	WeakAreaThresholdPercent    *int      `json:"weak_area_threshold_percent"`
	MinQuestionsForWeakDetect   *int      `json:"min_questions_for_weak_detection"`
	AvoidRecentQuestionsDays    *int      `json:"avoid_recent_questions_days"`
	DifficultyAdaptationEnabled *bool     `json:"difficulty_adaptation_enabled"`
	PreferredDifficulty         *int      `json:"preferred_difficulty"`
	DefaultStrategy             string    `json:"default_strategy"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}
