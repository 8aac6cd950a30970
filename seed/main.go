// seed/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adaptiq-labs/practice_api/seed/seeders"
	"github.com/adaptiq-labs/practice_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, content, badges")
		dsn      = flag.String("dsn", "", "Database DSN (overrides DATABASE_URL env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databaseURL := *dsn
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			databaseURL = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				envOr("DB_HOST", "localhost"),
				envOr("DB_USER", "postgres"),
				os.Getenv("DB_PASSWORD"),
				envOr("DB_NAME", "practice_api"),
				envOr("DB_PORT", "5432"),
			)
		}
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(services.Models()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "content":
		log.Println("Seeding content only...")
		if err := mainSeeder.SeedContentOnly(); err != nil {
			log.Fatalf("Failed to seed content: %v", err)
		}
	case "badges":
		log.Println("Seeding badges only...")
		if err := mainSeeder.SeedBadgesOnly(); err != nil {
			log.Fatalf("Failed to seed badges: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'content', or 'badges'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func showHelp() {
	log.Println(`
Database seeding tool for the practice API

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, content, badges
  -dsn string
        Database DSN (overrides DATABASE_URL environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only the question bank
  go run seed/main.go -type=content

  # Seed only the badge catalog
  go run seed/main.go -type=badges

Environment Variables:
  DATABASE_URL - Postgres DSN (falls back to DB_HOST/DB_USER/DB_PASSWORD/DB_NAME/DB_PORT)
`)
}
