// model/progress.go
package model

import (
	"time"
)

// UserStats is the per-user aggregate mutated only inside the completion
// transaction.
type UserStats struct {
	ID                       string     `json:"id" gorm:"primaryKey"`
	UserID                   string     `json:"user_id" gorm:"not null;uniqueIndex"`
	TotalXP                  int        `json:"total_xp" gorm:"default:0"`
	Level                    int        `json:"level" gorm:"default:1"`
	XPToNextLevel            int        `json:"xp_to_next_level" gorm:"default:100"`
	CurrentStreak            int        `json:"current_streak" gorm:"default:0"`
	LongestStreak            int        `json:"longest_streak" gorm:"default:0"`
	LastActivityDate         *time.Time `json:"last_activity_date"`
	TotalQuizzesCompleted    int        `json:"total_quizzes_completed" gorm:"default:0"`
	TotalQuestionsAttempted  int        `json:"total_questions_attempted" gorm:"default:0"`
	TotalCorrectAnswers      int        `json:"total_correct_answers" gorm:"default:0"`
	OverallAccuracy          float64    `json:"overall_accuracy" gorm:"default:0"`
	TotalPracticeTimeMinutes int        `json:"total_practice_time_minutes" gorm:"default:0"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

type UserTopicProgress struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	UserID             string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_topic"`
	TopicID            string     `json:"topic_id" gorm:"not null;uniqueIndex:idx_user_topic"`
	QuestionsAttempted int        `json:"questions_attempted" gorm:"default:0"`
	CorrectAnswers     int        `json:"correct_answers" gorm:"default:0"`
	Accuracy           float64    `json:"accuracy" gorm:"default:0"`
	LastPracticedAt    *time.Time `json:"last_practiced_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// StreakCalendar holds one additive row per user per activity day. The
// presence of a row is what makes same-day completions idempotent for
// streak counting.
type StreakCalendar struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	UserID             string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_activity_date"`
	ActivityDate       time.Time `json:"activity_date" gorm:"not null;uniqueIndex:idx_user_activity_date"`
	SessionsCompleted  int       `json:"sessions_completed" gorm:"default:0"`
	QuestionsAttempted int       `json:"questions_attempted" gorm:"default:0"`
	XPEarned           int       `json:"xp_earned" gorm:"default:0"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
