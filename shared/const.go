package shared

const (
	UserID = "user_id"

	StrategyBalanced     = "balanced"
	StrategyWeakArea     = "weak_area"
	StrategyAdaptive     = "adaptive"
	StrategySubjectFocus = "subject_focus"
	StrategyHardCore     = "hard_core"

	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionAbandoned  = "abandoned"

	BadgeTypeStreak        = "streak"
	BadgeTypeAccuracy      = "accuracy"
	BadgeTypeQuizCount     = "quiz_count"
	BadgeTypeSubjectMaster = "subject_master"

	DefaultQuestionCount     = 10
	DefaultWeight            = 10
	DefaultWeakAreaThreshold = 70
	DefaultMinWeakDetection  = 10
	DefaultAvoidRecentDays   = 7
	DefaultAssumedAccuracy   = 60.0
	CandidateFetchMultiplier = 5
	WeakAreaTopicCap         = 20
	XPPerCorrectAnswer       = 10
	XPPerPracticeMinute      = 2
	BaseLevelXP              = 100
	LevelXPGrowth            = 1.15
	MinSampleWeight          = 0.1
)
