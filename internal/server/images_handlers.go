package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

var imageKinds = map[string]bool{
	"users":    true,
	"posts":    true,
	"programs": true,
	"sliders":  true,
	"advisors": true,
}

func (s *Server) handleListImages(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if !imageKinds[kind] {
		return errors.New("unknown image kind "+kind, errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	names, err := s.uploads.ListKind(kind)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "images", names)
}
