package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/store"
)

func (s *Server) handleListSubscribers(c *fiber.Ctx) error {
	q := parseListQuery(c)

	records, total, err := s.store.Subscribers().List(c.Context(), q)
	if err != nil {
		return err
	}

	return respondList(c, "subscribers", store.NewPagination(total, q), records)
}

func (s *Server) handleCreateSubscriber(c *fiber.Ctx) error {
	payload := new(subscriberPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	email := auth.NormalizeEmail(payload.Email)
	exists, err := s.store.Subscribers().ExistsByEmail(c.Context(), email)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("this email is already subscribed", errors.CategoryConflict).
			WithCode(errors.CodeConflict)
	}

	record, err := s.store.Subscribers().Create(c.Context(), &model.Subscriber{
		Name:  payload.Name,
		Email: email,
	})
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, "subscribed", record)
}

func (s *Server) handleDeleteSubscriber(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.store.Subscribers().Delete(c.Context(), id); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "subscriber removed", nil)
}
