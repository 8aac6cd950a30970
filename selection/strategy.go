package selection

import (
	"math"
	"sort"

	"github.com/adaptiq-labs/practice_api/shared"
)

// Resolve maps a strategy name to its (filter, weight-fn) pair. Strategies
// that cannot produce a usable filter fall back to balanced, so a session
// request never fails just because a policy has nothing to bite on.
func Resolve(name string, prefs Preferences, progress []TopicAccuracy, requestedSubjectIDs []string) Strategy {
	switch name {
	case shared.StrategyWeakArea:
		return weakAreaStrategy(prefs, progress)
	case shared.StrategyAdaptive:
		return adaptiveStrategy(progress)
	case shared.StrategySubjectFocus:
		return subjectFocusStrategy(prefs, requestedSubjectIDs)
	case shared.StrategyHardCore:
		return hardCoreStrategy()
	default:
		return balancedStrategy()
	}
}

func balancedStrategy() Strategy {
	return Strategy{
		Name:   shared.StrategyBalanced,
		Weight: Candidate.BaseWeight,
	}
}

// weakAreaStrategy restricts the pool to the user's weakest topics: accuracy
// below the threshold with enough attempts to trust the signal, ranked
// weakest first and capped.
func weakAreaStrategy(prefs Preferences, progress []TopicAccuracy) Strategy {
	weak := make([]TopicAccuracy, 0)
	for _, tp := range progress {
		if tp.Accuracy < float64(prefs.WeakAreaThresholdPercent) &&
			tp.QuestionsAttempted >= prefs.MinQuestionsForWeakDetection {
			weak = append(weak, tp)
		}
	}

	if len(weak) == 0 {
		return balancedStrategy()
	}

	sort.Slice(weak, func(i, j int) bool {
		return weak[i].Accuracy < weak[j].Accuracy
	})
	if len(weak) > shared.WeakAreaTopicCap {
		weak = weak[:shared.WeakAreaTopicCap]
	}

	topicIDs := make([]string, len(weak))
	for i, tp := range weak {
		topicIDs[i] = tp.TopicID
	}

	return Strategy{
		Name:   shared.StrategyWeakArea,
		Filter: Filter{TopicIDs: topicIDs},
		Weight: Candidate.BaseWeight,
	}
}

// adaptiveStrategy biases toward a target difficulty derived from the user's
// mean topic accuracy. Distance from the target decays the weight
// quadratically rather than filtering outright.
func adaptiveStrategy(progress []TopicAccuracy) Strategy {
	target := targetDifficulty(meanAccuracy(progress))

	return Strategy{
		Name: shared.StrategyAdaptive,
		Weight: func(c Candidate) float64 {
			distance := math.Abs(float64(c.Question.Difficulty - target))
			return c.BaseWeight() * math.Pow(1+distance, -2)
		},
	}
}

func subjectFocusStrategy(prefs Preferences, requestedSubjectIDs []string) Strategy {
	subjectIDs := requestedSubjectIDs
	if len(subjectIDs) == 0 {
		subjectIDs = prefs.PreferredSubjectIDs
	}
	if len(subjectIDs) == 0 {
		return balancedStrategy()
	}

	return Strategy{
		Name:   shared.StrategySubjectFocus,
		Filter: Filter{SubjectIDs: subjectIDs},
		Weight: Candidate.BaseWeight,
	}
}

func hardCoreStrategy() Strategy {
	return Strategy{
		Name:   shared.StrategyHardCore,
		Filter: Filter{MinDifficulty: 4},
		Weight: Candidate.BaseWeight,
	}
}

func meanAccuracy(progress []TopicAccuracy) float64 {
	if len(progress) == 0 {
		return shared.DefaultAssumedAccuracy
	}

	total := 0.0
	for _, tp := range progress {
		total += tp.Accuracy
	}
	return total / float64(len(progress))
}

func targetDifficulty(accuracy float64) int {
	switch {
	case accuracy > 75:
		return 4
	case accuracy > 50:
		return 3
	case accuracy > 30:
		return 2
	default:
		return 1
	}
}
