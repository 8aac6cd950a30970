// services/preference.go
package services

import (
	goContext "context"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/adaptiq-labs/practice_api/dto"
	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/selection"
	"github.com/adaptiq-labs/practice_api/services/repositories"
	"github.com/adaptiq-labs/practice_api/shared"
)

// PreferenceService resolves a user's selection preferences, defaulting every
// missing field independently. A user with no preference row gets the full
// default set, never an error.
type PreferenceService struct {
	context.DefaultService

	sqlSvc   *PostgresService
	redisSvc *RedisService

	prefRepo *repositories.PreferenceRepository
}

const PREFERENCE_SVC = "preference_svc"

const preferenceCacheTTL = 5 * time.Minute

func (svc PreferenceService) Id() string {
	return PREFERENCE_SVC
}

func (svc *PreferenceService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *PreferenceService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)

	svc.prefRepo = repositories.NewPreferenceRepository(svc.sqlSvc.Db())
	return nil
}

func preferenceCacheKey(userID string) string {
	return fmt.Sprintf("prefs:%s", userID)
}

// Resolve returns the normalized preference record for the user.
func (svc *PreferenceService) Resolve(userID string) (selection.Preferences, error) {
	ctx := goContext.Background()

	var cached selection.Preferences
	if hit, err := svc.redisSvc.GetJSON(ctx, preferenceCacheKey(userID), &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		log.WithError(err).WithField("userID", userID).Warn("Preference cache read failed")
	}

	row, err := svc.prefRepo.GetPreferences(userID)
	if err != nil {
		return selection.Preferences{}, svc.sqlSvc.HandleError(err)
	}

	resolved := resolvePreferences(row)

	if err := svc.redisSvc.Set(ctx, preferenceCacheKey(userID), resolved, preferenceCacheTTL); err != nil {
		log.WithError(err).WithField("userID", userID).Warn("Preference cache write failed")
	}

	return resolved, nil
}

// resolvePreferences defaults each nil or empty field on its own; a partial
// row keeps whatever it does specify.
func resolvePreferences(row *model.UserPreference) selection.Preferences {
	resolved := selection.Preferences{
		ExcludedSubjectIDs:           []string{},
		PreferredSubjectIDs:          []string{},
		WeakAreaThresholdPercent:     shared.DefaultWeakAreaThreshold,
		MinQuestionsForWeakDetection: shared.DefaultMinWeakDetection,
		AvoidRecentQuestionsDays:     shared.DefaultAvoidRecentDays,
		DifficultyAdaptationEnabled:  true,
		DefaultStrategy:              shared.StrategyBalanced,
	}

	if row == nil {
		return resolved
	}

	if row.ExcludedSubjectIDs != nil {
		resolved.ExcludedSubjectIDs = row.ExcludedSubjectIDs
	}
	if row.PreferredSubjectIDs != nil {
		resolved.PreferredSubjectIDs = row.PreferredSubjectIDs
	}
	if row.WeakAreaThresholdPercent != nil {
		resolved.WeakAreaThresholdPercent = *row.WeakAreaThresholdPercent
	}
	if row.MinQuestionsForWeakDetect != nil {
		resolved.MinQuestionsForWeakDetection = *row.MinQuestionsForWeakDetect
	}
	if row.AvoidRecentQuestionsDays != nil {
		resolved.AvoidRecentQuestionsDays = *row.AvoidRecentQuestionsDays
	}
	if row.DifficultyAdaptationEnabled != nil {
		resolved.DifficultyAdaptationEnabled = *row.DifficultyAdaptationEnabled
	}
	if row.PreferredDifficulty != nil {
		resolved.PreferredDifficulty = row.PreferredDifficulty
	}
	if row.DefaultStrategy != "" {
		resolved.DefaultStrategy = row.DefaultStrategy
	}

	return resolved
}

// UpdatePreferences persists the caller's changes and drops the cache entry.
func (svc *PreferenceService) UpdatePreferences(userID string, req dto.UpdatePreferencesRequest) (selection.Preferences, error) {
	row := &model.UserPreference{
		UserID:                      userID,
		ExcludedSubjectIDs:          req.ExcludedSubjectIDs,
		PreferredSubjectIDs:         req.PreferredSubjectIDs,
		WeakAreaThresholdPercent:    req.WeakAreaThresholdPercent,
		MinQuestionsForWeakDetect:   req.MinQuestionsForWeakDetect,
		AvoidRecentQuestionsDays:    req.AvoidRecentQuestionsDays,
		DifficultyAdaptationEnabled: req.DifficultyAdaptationEnabled,
		PreferredDifficulty:         req.PreferredDifficulty,
		DefaultStrategy:             req.DefaultStrategy,
	}

	if err := svc.prefRepo.UpsertPreferences(row); err != nil {
		return selection.Preferences{}, svc.sqlSvc.HandleError(err)
	}

	if err := svc.redisSvc.Delete(goContext.Background(), preferenceCacheKey(userID)); err != nil {
		log.WithError(err).WithField("userID", userID).Warn("Preference cache invalidation failed")
	}

	return svc.Resolve(userID)
}
