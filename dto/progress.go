package dto

import "time"

type UserStatsResponse struct {
	UserID                   string     `json:"user_id"`
	TotalXP                  int        `json:"total_xp"`
	Level                    int        `json:"level"`
	XPToNextLevel            int        `json:"xp_to_next_level"`
	CurrentStreak            int        `json:"current_streak"`
	LongestStreak            int        `json:"longest_streak"`
	LastActivityDate         *time.Time `json:"last_activity_date"`
	TotalQuizzesCompleted    int        `json:"total_quizzes_completed"`
	TotalQuestionsAttempted  int        `json:"total_questions_attempted"`
	TotalCorrectAnswers      int        `json:"total_correct_answers"`
	OverallAccuracy          float64    `json:"overall_accuracy"`
	TotalPracticeTimeMinutes int        `json:"total_practice_time_minutes"`
}

type TopicProgressResponse struct {
	TopicID            string     `json:"topic_id"`
	TopicName          string     `json:"topic_name"`
	QuestionsAttempted int        `json:"questions_attempted"`
	CorrectAnswers     int        `json:"correct_answers"`
	Accuracy           float64    `json:"accuracy"`
	LastPracticedAt    *time.Time `json:"last_practiced_at"`
}

type BadgeResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	IconURL            string     `json:"icon_url"`
	XPReward           int        `json:"xp_reward"`
	UnlockedAt         *time.Time `json:"unlocked_at"`
	ProgressPercentage float64    `json:"progress_percentage"`
}

type BadgeCollectionResponse struct {
	Badges   []BadgeResponse `json:"badges"`
	Total    int             `json:"total"`
	Unlocked int             `json:"unlocked"`
}

type StreakDayResponse struct {
	Date               string `json:"date"`
	SessionsCompleted  int    `json:"sessions_completed"`
	QuestionsAttempted int    `json:"questions_attempted"`
	XPEarned           int    `json:"xp_earned"`
}

type StreakCalendarResponse struct {
	Month         string              `json:"month"`
	Days          []StreakDayResponse `json:"days"`
	CurrentStreak int                 `json:"current_streak"`
	LongestStreak int                 `json:"longest_streak"`
}

type LeaderboardUserResponse struct {
	UserID  string `json:"user_id"`
	Level   int    `json:"level"`
	TotalXP int    `json:"total_xp"`
	Rank    int    `json:"rank"`
}

type LeaderboardResponse struct {
	Period      string                    `json:"period"`
	CurrentUser LeaderboardUserResponse   `json:"current_user"`
	TopUsers    []LeaderboardUserResponse `json:"top_users"`
}
