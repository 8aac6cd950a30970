package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptiq-labs/practice_api/model"
)

type PreferenceRepository struct {
	BaseRepository
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetPreferences returns nil, nil when the user has no preference row;
// resolution treats that as all-defaults, never an error.
func (ds *PreferenceRepository) GetPreferences(userID string) (*model.UserPreference, error) {
	var prefs model.UserPreference
	err := ds.db.Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prefs, nil
}

func (ds *PreferenceRepository) UpsertPreferences(prefs *model.UserPreference) error {
	now := time.Now()

	var existing model.UserPreference
	err := ds.db.Where("user_id = ?", prefs.UserID).First(&existing).Error
	if err == nil {
		prefs.ID = existing.ID
		prefs.CreatedAt = existing.CreatedAt
		prefs.UpdatedAt = now
		return ds.db.Save(prefs).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	id, _ := uuid.NewV7()
	prefs.ID = id.String()
	prefs.CreatedAt = now
	prefs.UpdatedAt = now
	return ds.db.Create(prefs).Error
}
