package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adaptiq-labs/practice_api/model"
)

// StatsRepository persists the per-user aggregates the progression engine
// owns: UserStats, UserTopicProgress, StreakCalendar and UserBadge. Every
// write path is expected to run inside the completion transaction via
// WithTx.
type StatsRepository struct {
	BaseRepository
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *StatsRepository) WithTx(tx *gorm.DB) *StatsRepository {
	return NewStatsRepository(tx)
}

// GetOrCreateStats loads the user's aggregate row, creating a fresh level-1
// row on first contact.
func (ds *StatsRepository) GetOrCreateStats(userID string) (*model.UserStats, error) {
	var stats model.UserStats
	err := ds.db.Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	now := time.Now()
	stats = model.UserStats{
		ID:            id.String(),
		UserID:        userID,
		Level:         1,
		XPToNextLevel: 100,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := ds.db.Create(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (ds *StatsRepository) SaveStats(stats *model.UserStats) error {
	stats.UpdatedAt = time.Now()
	return ds.db.Save(stats).Error
}

func (ds *StatsRepository) GetTopicProgress(userID, topicID string) (*model.UserTopicProgress, error) {
	var progress model.UserTopicProgress
	if err := ds.db.Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (ds *StatsRepository) GetTopicProgressList(userID string) ([]model.UserTopicProgress, error) {
	var progress []model.UserTopicProgress
	if err := ds.db.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

// AccumulateTopicProgress adds the session's per-topic attempt counters and
// recomputes accuracy from the stored columns in a second statement, keeping
// the arithmetic store-side.
func (ds *StatsRepository) AccumulateTopicProgress(userID, topicID string, attempted, correct int, practicedAt time.Time) error {
	id, _ := uuid.NewV7()
	now := time.Now()

	accuracy := 0.0
	if attempted > 0 {
		accuracy = float64(correct) / float64(attempted) * 100
	}

	row := model.UserTopicProgress{
		ID:                 id.String(),
		UserID:             userID,
		TopicID:            topicID,
		QuestionsAttempted: attempted,
		CorrectAnswers:     correct,
		Accuracy:           accuracy,
		LastPracticedAt:    &practicedAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"questions_attempted": gorm.Expr("questions_attempted + ?", attempted),
			"correct_answers":     gorm.Expr("correct_answers + ?", correct),
			"last_practiced_at":   practicedAt,
			"updated_at":          now,
		}),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	return ds.db.Model(&model.UserTopicProgress{}).
		Where("user_id = ? AND topic_id = ? AND questions_attempted > 0", userID, topicID).
		Update("accuracy", gorm.Expr("ROUND(100.0 * correct_answers / questions_attempted, 2)")).Error
}

func (ds *StatsRepository) GetStreakDay(userID string, day time.Time) (*model.StreakCalendar, error) {
	var entry model.StreakCalendar
	err := ds.db.Where("user_id = ? AND activity_date = ?", userID, day).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// AccumulateStreakDay upserts the additive counters for one activity day.
func (ds *StatsRepository) AccumulateStreakDay(userID string, day time.Time, sessions, attempted, xpEarned int) error {
	id, _ := uuid.NewV7()
	now := time.Now()

	entry := model.StreakCalendar{
		ID:                 id.String(),
		UserID:             userID,
		ActivityDate:       day,
		SessionsCompleted:  sessions,
		QuestionsAttempted: attempted,
		XPEarned:           xpEarned,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "activity_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"sessions_completed":  gorm.Expr("sessions_completed + ?", sessions),
			"questions_attempted": gorm.Expr("questions_attempted + ?", attempted),
			"xp_earned":           gorm.Expr("xp_earned + ?", xpEarned),
			"updated_at":          now,
		}),
	}).Create(&entry).Error
}

func (ds *StatsRepository) GetStreakDaysInRange(userID string, from, to time.Time) ([]model.StreakCalendar, error) {
	var entries []model.StreakCalendar
	if err := ds.db.Where("user_id = ? AND activity_date >= ? AND activity_date < ?", userID, from, to).
		Order("activity_date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ==================== BADGE METHODS ====================

func (ds *StatsRepository) GetActiveBadges() ([]model.Badge, error) {
	var badges []model.Badge
	if err := ds.db.Where("is_active = ?", true).Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (ds *StatsRepository) GetUserBadges(userID string) ([]model.UserBadge, error) {
	var userBadges []model.UserBadge
	if err := ds.db.Preload("Badge").Where("user_id = ?", userID).
		Find(&userBadges).Error; err != nil {
		return nil, err
	}
	return userBadges, nil
}

// GetUnlockedBadgeIDs returns the ids of badges the user has already
// unlocked; those are never evaluated again.
func (ds *StatsRepository) GetUnlockedBadgeIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := ds.db.Model(&model.UserBadge{}).
		Where("user_id = ? AND unlocked_at IS NOT NULL", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

// UnlockBadge sets unlockedAt exactly once for the (user, badge) pair.
func (ds *StatsRepository) UnlockBadge(userID, badgeID string, unlockedAt time.Time) error {
	id, _ := uuid.NewV7()
	now := time.Now()

	userBadge := model.UserBadge{
		ID:                 id.String(),
		UserID:             userID,
		BadgeID:            badgeID,
		UnlockedAt:         &unlockedAt,
		ProgressPercentage: 100,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"unlocked_at":         unlockedAt,
			"progress_percentage": 100,
			"updated_at":          now,
		}),
	}).Create(&userBadge).Error
}

// UpdateBadgeProgress records partial progress toward a still-locked badge.
func (ds *StatsRepository) UpdateBadgeProgress(userID, badgeID string, percentage float64) error {
	id, _ := uuid.NewV7()
	now := time.Now()

	userBadge := model.UserBadge{
		ID:                 id.String(),
		UserID:             userID,
		BadgeID:            badgeID,
		ProgressPercentage: percentage,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"progress_percentage": percentage,
			"updated_at":          now,
		}),
	}).Create(&userBadge).Error
}
