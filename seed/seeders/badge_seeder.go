package seeders

import (
	"log"

	"gorm.io/gorm"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/shared"
)

// BadgeSeeder installs the badge catalog. Badges are matched by name, so
// rerunning (or running after first boot already seeded them) never
// duplicates or resets unlock state.
type BadgeSeeder struct {
	db *gorm.DB
}

func NewBadgeSeeder(db *gorm.DB) *BadgeSeeder {
	return &BadgeSeeder{db: db}
}

func (s *BadgeSeeder) SeedBadges() error {
	for _, badge := range s.getBadges() {
		var existing model.Badge
		err := s.db.Where("name = ?", badge.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := s.db.Create(&badge).Error; err != nil {
			log.Printf("Error creating badge %s: %v", badge.Name, err)
			return err
		}
		log.Printf("Created badge: %s", badge.Name)
	}

	log.Println("Badge seeding completed successfully")
	return nil
}

func (s *BadgeSeeder) getBadges() []model.Badge {
	return []model.Badge{
		{
			ID:             "badge-first-steps",
			Name:           "First Steps",
			Description:    "Complete your first practice session",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 1, Lifetime: true},
			XPReward:       25,
			IsActive:       true,
		},
		{
			ID:             "badge-week-warrior",
			Name:           "Week Warrior",
			Description:    "Practice every day for a week",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeStreak, Days: 7},
			XPReward:       100,
			IsActive:       true,
		},
		{
			ID:             "badge-monthly-master",
			Name:           "Monthly Master",
			Description:    "Keep a 30 day practice streak",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeStreak, Days: 30},
			XPReward:       500,
			IsActive:       true,
		},
		{
			ID:             "badge-sharp-shooter",
			Name:           "Sharp Shooter",
			Description:    "Score 90% or better in a session of at least 10 questions",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeAccuracy, Percentage: 90, MinQuestions: 10},
			XPReward:       150,
			IsActive:       true,
		},
		{
			ID:             "badge-centurion",
			Name:           "Centurion",
			Description:    "Complete 100 practice sessions",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 100, Lifetime: true},
			XPReward:       1000,
			IsActive:       true,
		},
	}
}
