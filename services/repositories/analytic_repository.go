package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/adaptiq-labs/practice_api/model"
)

type AnalyticRepository struct {
	BaseRepository
}

func NewAnalyticRepository(db *gorm.DB) *AnalyticRepository {
	return &AnalyticRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *AnalyticRepository) GetAllTimeLeaderboard(limit int) ([]model.UserStats, error) {
	var users []model.UserStats
	if err := ds.db.Order("total_xp DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetWeeklyLeaderboard ranks by total XP among users active in the last week.
func (ds *AnalyticRepository) GetWeeklyLeaderboard(limit int) ([]model.UserStats, error) {
	var users []model.UserStats
	weekAgo := time.Now().AddDate(0, 0, -7)

	if err := ds.db.Where("last_activity_date >= ?", weekAgo).
		Order("total_xp DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ds *AnalyticRepository) GetUserRank(userID string) (int, error) {
	var stats model.UserStats
	if err := ds.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return 0, err
	}

	var rank int64
	if err := ds.db.Model(&model.UserStats{}).
		Where("total_xp > ?", stats.TotalXP).Count(&rank).Error; err != nil {
		return 0, err
	}

	return int(rank + 1), nil
}
