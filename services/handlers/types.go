package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adaptiq-labs/practice_api/dto"
	"github.com/adaptiq-labs/practice_api/selection"
	"github.com/adaptiq-labs/practice_api/shared"
)

type PracticeServiceInterface interface {
	CreateSession(userID string, req dto.CreateSessionRequest) (*dto.SessionResponse, error)
	SubmitAnswer(userID, sessionID string, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error)
	CompleteSession(userID, sessionID string) (*dto.CompleteSessionResponse, error)
	GetSession(userID, sessionID string) (*dto.SessionResponse, error)
	GetActiveSession(userID string) (*dto.SessionResponse, error)
}

type ProgressionServiceInterface interface {
	GetUserStats(userID string) (*dto.UserStatsResponse, error)
	GetTopicProgress(userID string) ([]dto.TopicProgressResponse, error)
	GetBadges(userID string) (*dto.BadgeCollectionResponse, error)
	GetStreakCalendar(userID, month string) (*dto.StreakCalendarResponse, error)
	GetLeaderboard(userID, period string, limit int) (*dto.LeaderboardResponse, error)
}

type PreferenceServiceInterface interface {
	Resolve(userID string) (selection.Preferences, error)
	UpdatePreferences(userID string, req dto.UpdatePreferencesRequest) (selection.Preferences, error)
}

// requestUserID reads the caller identity set by the gateway. Auth happens
// upstream; an absent header is a client error, not an auth failure.
func requestUserID(c *fiber.Ctx) (string, error) {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return "", shared.NewBadRequestError(nil, "X-User-ID header is required")
	}
	return userID, nil
}
