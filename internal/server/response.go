package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kinsust/kin-api/internal/store"
)

// envelope is the success shape shared by every endpoint:
// {success, message, pagination?, data?}.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Pagination *store.Pagination `json:"pagination,omitempty"`
	Data       any               `json:"data,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondList(c *fiber.Ctx, message string, pagination store.Pagination, data any) error {
	return c.Status(fiber.StatusOK).JSON(envelope{
		Success:    true,
		Message:    message,
		Pagination: &pagination,
		Data:       data,
	})
}
