package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adaptiq-labs/practice_api/dto"
	"github.com/adaptiq-labs/practice_api/shared"
)

type PracticeHandler struct {
	practiceSvc   PracticeServiceInterface
	preferenceSvc PreferenceServiceInterface
}

func NewPracticeHandler(practiceSvc PracticeServiceInterface, preferenceSvc PreferenceServiceInterface) *PracticeHandler {
	return &PracticeHandler{
		practiceSvc:   practiceSvc,
		preferenceSvc: preferenceSvc,
	}
}

// @Summary Create Practice Session
// @Description Start a new practice session with a strategy-weighted question set
// @Tags practice
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session parameters"
// @Success 201 {object} shared.Response{data=dto.SessionResponse}
// @Failure 422 {object} shared.Response
// @Router /api/v1/practice/sessions [post]
func (h *PracticeHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	session, err := h.practiceSvc.CreateSession(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", session)
}

// @Summary Get Practice Session
// @Description Get one of the caller's sessions with its question set
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/practice/sessions/{id} [get]
func (h *PracticeHandler) GetSession(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	session, err := h.practiceSvc.GetSession(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Get Active Session
// @Description Get the caller's in-progress session, if any
// @Tags practice
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/practice/sessions/active [get]
func (h *PracticeHandler) GetActiveSession(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	session, err := h.practiceSvc.GetActiveSession(userID)
	if err != nil {
		return err
	}
	if session == nil {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Submit Answer
// @Description Submit a write-once answer for a question in the session
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} shared.Response{data=dto.AnswerResponse}
// @Failure 409 {object} shared.Response
// @Router /api/v1/practice/sessions/{id}/answers [post]
func (h *PracticeHandler) SubmitAnswer(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	answer, err := h.practiceSvc.SubmitAnswer(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", answer)
}

// @Summary Complete Session
// @Description Finalize the session, grant XP and evaluate badges
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.CompleteSessionResponse}
// @Router /api/v1/practice/sessions/{id}/complete [post]
func (h *PracticeHandler) CompleteSession(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	result, err := h.practiceSvc.CompleteSession(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Get Preferences
// @Description Get the caller's resolved selection preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=selection.Preferences}
// @Router /api/v1/practice/preferences [get]
func (h *PracticeHandler) GetPreferences(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	prefs, err := h.preferenceSvc.Resolve(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", prefs)
}

// @Summary Update Preferences
// @Description Update the caller's selection preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferencesRequest true "Preferences"
// @Success 200 {object} shared.Response{data=selection.Preferences}
// @Router /api/v1/practice/preferences [put]
func (h *PracticeHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	prefs, err := h.preferenceSvc.UpdatePreferences(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", prefs)
}
