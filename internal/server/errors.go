package server

import (
	stderrors "errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"

	"github.com/kinsust/kin-api/internal/logging"
)

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// uniqueViolation matches the sqlite and postgres flavors of a unique index
// failure and captures the offending column.
var uniqueViolation = regexp.MustCompile(`UNIQUE constraint failed: \w+\.(\w+)|duplicate key value violates unique constraint`)

// NewErrorHandler is the single boundary where domain errors become HTTP.
// Everything below it returns go-errors values or raw storage errors.
func NewErrorHandler(logger logging.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = logging.Nop()
	}

	return func(c *fiber.Ctx, err error) error {
		status, message := translate(err)

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", err.Error(),
			)
			// internal details stay out of the envelope
			message = "internal server error"
		}

		return c.Status(status).JSON(errorEnvelope{
			Success: false,
			Error: errorBody{
				Status:  status,
				Message: message,
			},
		})
	}
}

func translate(err error) (int, string) {
	// ozzo validation errors read well as-is: "field: rule message."
	var verr validation.Errors
	if stderrors.As(err, &verr) {
		return fiber.StatusBadRequest, verr.Error()
	}

	if m := uniqueViolation.FindStringSubmatch(err.Error()); m != nil {
		field := "value"
		if m[1] != "" {
			field = m[1]
		}
		return fiber.StatusConflict, field + " must be unique"
	}

	if repository.IsRecordNotFound(err) {
		return fiber.StatusNotFound, "record not found"
	}

	var derr *errors.Error
	if stderrors.As(err, &derr) {
		return categoryStatus(derr), derr.Message
	}

	var ferr *fiber.Error
	if stderrors.As(err, &ferr) {
		return ferr.Code, ferr.Message
	}

	return fiber.StatusInternalServerError, err.Error()
}

func categoryStatus(err *errors.Error) int {
	switch err.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
