package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in dependency order: content first, then the
// badge catalog.
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	contentSeeder := NewContentSeeder(s.db)
	if err := contentSeeder.SeedContent(); err != nil {
		log.Printf("Content seeding failed: %v", err)
		return err
	}

	badgeSeeder := NewBadgeSeeder(s.db)
	if err := badgeSeeder.SeedBadges(); err != nil {
		log.Printf("Badge seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedContentOnly() error {
	return NewContentSeeder(s.db).SeedContent()
}

func (s *MainSeeder) SeedBadgesOnly() error {
	return NewBadgeSeeder(s.db).SeedBadges()
}
