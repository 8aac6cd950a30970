package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/adaptiq-labs/practice_api/shared"
)

type ProgressHandler struct {
	progressionSvc ProgressionServiceInterface
}

func NewProgressHandler(progressionSvc ProgressionServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressionSvc: progressionSvc,
	}
}

// @Summary Get User Stats
// @Description Get the caller's XP, level, streak and lifetime totals
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.UserStatsResponse}
// @Router /api/v1/progress/stats [get]
func (h *ProgressHandler) GetStats(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.progressionSvc.GetUserStats(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}

// @Summary Get Topic Progress
// @Description Get the caller's per-topic mastery
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.TopicProgressResponse}
// @Router /api/v1/progress/topics [get]
func (h *ProgressHandler) GetTopicProgress(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	progress, err := h.progressionSvc.GetTopicProgress(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Get Badges
// @Description Get the badge catalog with the caller's unlock state
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.BadgeCollectionResponse}
// @Router /api/v1/progress/badges [get]
func (h *ProgressHandler) GetBadges(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	badges, err := h.progressionSvc.GetBadges(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", badges)
}

// @Summary Get Streak Calendar
// @Description Get one month of activity days
// @Tags progress
// @Accept json
// @Produce json
// @Param month query string false "Month as YYYY-MM (default current)"
// @Success 200 {object} shared.Response{data=dto.StreakCalendarResponse}
// @Router /api/v1/progress/streak [get]
func (h *ProgressHandler) GetStreakCalendar(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	calendar, err := h.progressionSvc.GetStreakCalendar(userID, c.Query("month"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", calendar)
}

// @Summary Get Leaderboard
// @Description Get XP rankings with the caller's own rank
// @Tags progress
// @Accept json
// @Produce json
// @Param period query string false "all_time or weekly (default all_time)"
// @Param limit query int false "Limit results (default 20)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/progress/leaderboard [get]
func (h *ProgressHandler) GetLeaderboard(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	leaderboard, err := h.progressionSvc.GetLeaderboard(userID, c.Query("period"), limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}
