package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adaptiq-labs/practice_api/model"
	"github.com/adaptiq-labs/practice_api/services/repositories"
	"github.com/adaptiq-labs/practice_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "practice_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	err = ds.db.AutoMigrate(Models()...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	err = ds.seedDefaultBadges()
	if err != nil {
		log.Printf("Failed to seed badge catalog: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

// Models lists every table the engine owns; shared with the sqlite-backed
// tests.
func Models() []interface{} {
	return []interface{}{
		// Content models
		&model.Subject{},
		&model.Topic{},
		&model.Question{},
		&model.AnswerOption{},
		&model.UserQuestionHistory{},
		&model.UserPreference{},

		// Session models
		&model.PracticeSession{},
		&model.SessionQuestion{},
		&model.SessionAnswer{},

		// Progression models
		&model.UserStats{},
		&model.UserTopicProgress{},
		&model.StreakCalendar{},
		&model.Badge{},
		&model.UserBadge{},
	}
}

// seedDefaultBadges installs the stock badge catalog on first boot. Existing
// rows are left alone so operators can edit criteria in place.
func (ds *PostgresService) seedDefaultBadges() error {
	var count int64
	if err := ds.db.Model(&model.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	badges := []model.Badge{
		{
			Name:           "First Steps",
			Description:    "Complete your first practice session",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 1, Lifetime: true},
			XPReward:       25,
		},
		{
			Name:           "Week Warrior",
			Description:    "Practice 7 days in a row",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeStreak, Days: 7},
			XPReward:       100,
		},
		{
			Name:           "Monthly Master",
			Description:    "Practice 30 days in a row",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeStreak, Days: 30},
			XPReward:       500,
		},
		{
			Name:           "Sharp Shooter",
			Description:    "Score 90% or better in a session of at least 10 questions",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeAccuracy, Percentage: 90, MinQuestions: 10},
			XPReward:       150,
		},
		{
			Name:           "Centurion",
			Description:    "Complete 100 practice sessions",
			UnlockCriteria: model.BadgeCriteria{Type: shared.BadgeTypeQuizCount, Count: 100, Lifetime: true},
			XPReward:       1000,
		},
	}

	now := time.Now()
	for i := range badges {
		id, _ := uuid.NewV7()
		badges[i].ID = id.String()
		badges[i].IsActive = true
		badges[i].CreatedAt = now
		badges[i].UpdatedAt = now
	}

	return ds.db.Create(&badges).Error
}

func (ds *PostgresService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// HandleError maps a repository or transaction error onto the response
// taxonomy. Errors that already carry a mapping pass through untouched.
func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := shared.GetAppError(err); ok {
		return appErr
	}

	var appErr *shared.AppError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		appErr = shared.NewNotFoundError(err, "Record not found")
	case repositories.IsDuplicateKey(err):
		appErr = shared.NewConflictError(err, "Record already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		appErr = shared.NewBadRequestError(err, "Invalid reference")
	case strings.Contains(err.Error(), "connection refused"):
		appErr = shared.NewUnavailableError(err, "Database unavailable")
	default:
		appErr = shared.NewInternalError(err, "Database error")
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": appErr.StatusCode,
		"kind":        appErr.Kind,
		"error":       err.Error(),
	})

	if appErr.StatusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return appErr
}
