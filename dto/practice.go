package dto

import "time"

// Session DTOs
type CreateSessionRequest struct {
	Strategy   string   `json:"strategy" validate:"omitempty,oneof=balanced weak_area adaptive subject_focus hard_core"`
	Count      *int     `json:"count" validate:"omitempty,min=1,max=50"`
	TopicID    string   `json:"topic_id"`
	SubjectIDs []string `json:"subject_ids"`
}

func (r CreateSessionRequest) Validate() error {
	return validate.Struct(r)
}

type AnswerOptionResponse struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type SessionQuestionResponse struct {
	ID         string                 `json:"id"`
	TopicID    string                 `json:"topic_id"`
	Text       string                 `json:"text"`
	Difficulty int                    `json:"difficulty"`
	Options    []AnswerOptionResponse `json:"options"`
}

type SessionResponse struct {
	ID                 string                    `json:"id"`
	UserID             string                    `json:"user_id"`
	Strategy           string                    `json:"strategy"`
	Status             string                    `json:"status"`
	TotalQuestions     int                       `json:"total_questions"`
	QuestionsAttempted int                       `json:"questions_attempted"`
	CorrectAnswers     int                       `json:"correct_answers"`
	WrongAnswers       int                       `json:"wrong_answers"`
	Accuracy           float64                   `json:"accuracy"`
	XPEarned           int                       `json:"xp_earned"`
	TimeSpentSeconds   int                       `json:"time_spent_seconds"`
	StartedAt          time.Time                 `json:"started_at"`
	CompletedAt        *time.Time                `json:"completed_at"`
	Questions          []SessionQuestionResponse `json:"questions,omitempty"`
}

type SubmitAnswerRequest struct {
	QuestionID       string  `json:"question_id" validate:"required"`
	SelectedOptionID *string `json:"selected_option_id"`
	TimeSpentSeconds int     `json:"time_spent_seconds" validate:"min=0"`
}

func (r SubmitAnswerRequest) Validate() error {
	return validate.Struct(r)
}

type AnswerResponse struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	QuestionID       string    `json:"question_id"`
	SelectedOptionID *string   `json:"selected_option_id"`
	IsCorrect        bool      `json:"is_correct"`
	CorrectOptionID  string    `json:"correct_option_id"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	AnsweredAt       time.Time `json:"answered_at"`
}

type CompleteSessionResponse struct {
	Session        SessionResponse `json:"session"`
	LeveledUp      bool            `json:"leveled_up"`
	NewLevel       int             `json:"new_level"`
	CurrentStreak  int             `json:"current_streak"`
	UnlockedBadges []BadgeResponse `json:"unlocked_badges"`
}

// Preference DTOs
type UpdatePreferencesRequest struct {
	ExcludedSubjectIDs          []string `json:"excluded_subject_ids"`
	PreferredSubjectIDs         []string `json:"preferred_subject_ids"`
	WeakAreaThresholdPercent    *int     `json:"weak_area_threshold_percent" validate:"omitempty,min=1,max=100"`
	MinQuestionsForWeakDetect   *int     `json:"min_questions_for_weak_detection" validate:"omitempty,min=1"`
	AvoidRecentQuestionsDays    *int     `json:"avoid_recent_questions_days" validate:"omitempty,min=0,max=365"`
	DifficultyAdaptationEnabled *bool    `json:"difficulty_adaptation_enabled"`
	PreferredDifficulty         *int     `json:"preferred_difficulty" validate:"omitempty,min=1,max=5"`
	DefaultStrategy             string   `json:"default_strategy" validate:"omitempty,oneof=balanced weak_area adaptive subject_focus hard_core"`
}

func (r UpdatePreferencesRequest) Validate() error {
	return validate.Struct(r)
}
