package shared

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

const (
	ErrNotFound         = "not_found"
	ErrInvalidState     = "invalid_state"
	ErrDuplicateAnswer  = "duplicate_answer"
	ErrContentExhausted = "content_exhausted"
	ErrValidation       = "validation"
	ErrBadRequest       = "bad_request"
	ErrConflict         = "conflict"
	ErrUnavailable      = "unavailable"
	ErrInternal         = "internal"
)

// AppError is the error carried across service boundaries. Kind drives
// programmatic handling, StatusCode drives the HTTP mapping.
type AppError struct {
	StatusCode int
	Kind       string
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(statusCode int, kind string, err error, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message,
		Err:        err,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(fiber.StatusNotFound, ErrNotFound, err, message)
}

func NewInvalidStateError(err error, message string) *AppError {
	return newAppError(fiber.StatusConflict, ErrInvalidState, err, message)
}

func NewDuplicateAnswerError(err error, message string) *AppError {
	return newAppError(fiber.StatusConflict, ErrDuplicateAnswer, err, message)
}

func NewContentExhaustedError(err error, message string) *AppError {
	return newAppError(fiber.StatusUnprocessableEntity, ErrContentExhausted, err, message)
}

func NewValidationError(err error, message string, data interface{}) *AppError {
	appErr := newAppError(fiber.StatusBadRequest, ErrValidation, err, message)
	appErr.Data = data
	return appErr
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(fiber.StatusBadRequest, ErrBadRequest, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(fiber.StatusConflict, ErrConflict, err, message)
}

func NewUnavailableError(err error, message string) *AppError {
	return newAppError(fiber.StatusServiceUnavailable, ErrUnavailable, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(fiber.StatusInternalServerError, ErrInternal, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, kind string) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Kind == kind
	}
	return false
}
