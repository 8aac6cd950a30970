package services

import (
	"reflect"
	"testing"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/shared"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestResolvePreferencesMissingRow(t *testing.T) {
	got := resolvePreferences(nil)

	if got.WeakAreaThresholdPercent != shared.DefaultWeakAreaThreshold {
		t.Errorf("weakAreaThreshold = %d, want %d", got.WeakAreaThresholdPercent, shared.DefaultWeakAreaThreshold)
	}
	if got.MinQuestionsForWeakDetection != shared.DefaultMinWeakDetection {
		t.Errorf("minQuestionsForWeakDetection = %d, want %d", got.MinQuestionsForWeakDetection, shared.DefaultMinWeakDetection)
	}
	if got.AvoidRecentQuestionsDays != shared.DefaultAvoidRecentDays {
		t.Errorf("avoidRecentQuestionsDays = %d, want %d", got.AvoidRecentQuestionsDays, shared.DefaultAvoidRecentDays)
	}
	if !got.DifficultyAdaptationEnabled {
		t.Error("difficultyAdaptationEnabled should default to true")
	}
	if got.PreferredDifficulty != nil {
		t.Error("preferredDifficulty should default to nil")
	}
	if got.DefaultStrategy != shared.StrategyBalanced {
		t.Errorf("defaultStrategy = %q, want %q", got.DefaultStrategy, shared.StrategyBalanced)
	}
	if got.ExcludedSubjectIDs == nil || len(got.ExcludedSubjectIDs) != 0 {
		t.Error("excludedSubjectIDs should default to an empty slice")
	}
}

func TestResolvePreferencesPartialRow(t *testing.T) {
	row := &model.UserPreference{
		UserID:                   "u1",
		ExcludedSubjectIDs:       model.StringArr{"math"},
		WeakAreaThresholdPercent: intPtr(55),
	}

	got := resolvePreferences(row)

	if !reflect.DeepEqual([]string(got.ExcludedSubjectIDs), []string{"math"}) {
		t.Errorf("excludedSubjectIDs = %v, want [math]", got.ExcludedSubjectIDs)
	}
	if got.WeakAreaThresholdPercent != 55 {
		t.Errorf("weakAreaThreshold = %d, want 55", got.WeakAreaThresholdPercent)
	}

	// untouched fields keep their defaults
	if got.MinQuestionsForWeakDetection != shared.DefaultMinWeakDetection {
		t.Errorf("minQuestionsForWeakDetection = %d, want default", got.MinQuestionsForWeakDetection)
	}
	if got.AvoidRecentQuestionsDays != shared.DefaultAvoidRecentDays {
		t.Errorf("avoidRecentQuestionsDays = %d, want default", got.AvoidRecentQuestionsDays)
	}
	if got.DefaultStrategy != shared.StrategyBalanced {
		t.Errorf("defaultStrategy = %q, want balanced", got.DefaultStrategy)
	}
}

func TestResolvePreferencesFullRow(t *testing.T) {
	row := &model.UserPreference{
		UserID:                      "u1",
		ExcludedSubjectIDs:          model.StringArr{"art"},
		PreferredSubjectIDs:         model.StringArr{"science"},
		WeakAreaThresholdPercent:    intPtr(60),
		MinQuestionsForWeakDetect:   intPtr(5),
		AvoidRecentQuestionsDays:    intPtr(0),
		DifficultyAdaptationEnabled: boolPtr(false),
		PreferredDifficulty:         intPtr(4),
		DefaultStrategy:             shared.StrategyHardCore,
	}

	got := resolvePreferences(row)

	if got.AvoidRecentQuestionsDays != 0 {
		t.Errorf("avoidRecentQuestionsDays = %d, want explicit 0", got.AvoidRecentQuestionsDays)
	}
	if got.DifficultyAdaptationEnabled {
		t.Error("difficultyAdaptationEnabled should honor explicit false")
	}
	if got.PreferredDifficulty == nil || *got.PreferredDifficulty != 4 {
		t.Errorf("preferredDifficulty = %v, want 4", got.PreferredDifficulty)
	}
	if got.DefaultStrategy != shared.StrategyHardCore {
		t.Errorf("defaultStrategy = %q, want hard_core", got.DefaultStrategy)
	}
}
