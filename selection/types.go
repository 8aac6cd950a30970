package selection

import (
	"github.com/adaptiq-labs/practice_api/model"
)

// Preferences is the fully-defaulted output of the preference resolver.
type Preferences struct {
	ExcludedSubjectIDs           []string `json:"excluded_subject_ids"`
	PreferredSubjectIDs          []string `json:"preferred_subject_ids"`
	WeakAreaThresholdPercent     int      `json:"weak_area_threshold_percent"`
	MinQuestionsForWeakDetection int      `json:"min_questions_for_weak_detection"`
	AvoidRecentQuestionsDays     int      `json:"avoid_recent_questions_days"`
	DifficultyAdaptationEnabled  bool     `json:"difficulty_adaptation_enabled"`
	PreferredDifficulty          *int     `json:"preferred_difficulty"`
	DefaultStrategy              string   `json:"default_strategy"`
}

// TopicAccuracy is the slice of UserTopicProgress the strategies care about.
type TopicAccuracy struct {
	TopicID            string
	Accuracy           float64
	QuestionsAttempted int
}

// Filter narrows the candidate query before weighting. Zero values mean no
// restriction.
type Filter struct {
	TopicIDs      []string
	SubjectIDs    []string
	MinDifficulty int
}

// Candidate is a question annotated with the topic/subject weights it was
// fetched with.
type Candidate struct {
	Question      model.Question
	TopicWeight   int
	SubjectWeight int
}

// BaseWeight is topicWeight x subjectWeight, the weight every strategy
// starts from.
func (c Candidate) BaseWeight() float64 {
	return float64(c.TopicWeight) * float64(c.SubjectWeight)
}

// WeightedCandidate carries the strategy-transformed weight into the sampler.
type WeightedCandidate struct {
	Candidate
	Weight float64
}

// Strategy pairs a candidate filter with a weight function.
type Strategy struct {
	Name   string
	Filter Filter
	Weight func(Candidate) float64
}
