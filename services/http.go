package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/adaptiq-labs/practice_api/services/handlers"
	"github.com/adaptiq-labs/practice_api/shared"
)

type HttpService struct {
	context.DefaultService

	practiceSvc    *PracticeService
	progressionSvc *ProgressionService
	preferenceSvc  *PreferenceService
	monitoringSvc  *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.practiceSvc = svc.Service(PRACTICE_SVC).(*PracticeService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.preferenceSvc = svc.Service(PREFERENCE_SVC).(*PreferenceService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowCredentials: false,
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)

	practiceHandler := handlers.NewPracticeHandler(svc.practiceSvc, svc.preferenceSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressionSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	practice := v1.Group("/practice")
	practice.Post("/sessions", practiceHandler.CreateSession)
	practice.Get("/sessions/active", practiceHandler.GetActiveSession)
	practice.Get("/sessions/:id", practiceHandler.GetSession)
	practice.Post("/sessions/:id/answers", practiceHandler.SubmitAnswer)
	practice.Post("/sessions/:id/complete", practiceHandler.CompleteSession)
	practice.Get("/preferences", practiceHandler.GetPreferences)
	practice.Put("/preferences", practiceHandler.UpdatePreferences)

	progress := v1.Group("/progress")
	progress.Get("/stats", progressHandler.GetStats)
	progress.Get("/topics", progressHandler.GetTopicProgress)
	progress.Get("/badges", progressHandler.GetBadges)
	progress.Get("/streak", progressHandler.GetStreakCalendar)
	progress.Get("/leaderboard", progressHandler.GetLeaderboard)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.Info().Int("port", svc.port).Msg("HTTP server started")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

// errorHandler maps service errors onto the response envelope. AppErrors keep
// their status and message; anything else is a 500.
func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return shared.ResponseInternalError(c, err)
}
