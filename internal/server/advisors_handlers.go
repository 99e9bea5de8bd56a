package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/store"
)

func (s *Server) handleListAdvisors(c *fiber.Ctx) error {
	q := parseListQuery(c)

	records, total, err := s.store.Advisors().List(c.Context(), q)
	if err != nil {
		return err
	}

	return respondList(c, "advisors", store.NewPagination(total, q), records)
}

func (s *Server) handleCreateAdvisor(c *fiber.Ctx) error {
	payload := new(advisorPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	email := auth.NormalizeEmail(payload.Email)
	exists, err := s.store.Advisors().ExistsByEmail(c.Context(), email)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("an advisor with this email already exists", errors.CategoryConflict).
			WithCode(errors.CodeConflict)
	}

	file, ferr := c.FormFile("advisor_photo")
	if ferr != nil || file == nil {
		return errors.New("advisor_photo is required", errors.CategoryValidation)
	}

	photo, err := s.uploads.Save(c, file, "advisors")
	if err != nil {
		return err
	}

	record, err := s.store.Advisors().Create(c.Context(), &model.Advisor{
		Name:        payload.Name,
		Designation: payload.Designation,
		Institute:   payload.Institute,
		Email:       email,
		Cell:        payload.Cell,
		Photo:       photo,
		Website:     payload.Website,
		Index:       payload.Index,
	})
	if err != nil {
		s.uploads.Remove(photo)
		return err
	}

	return respond(c, fiber.StatusCreated, "advisor created", record)
}

func (s *Server) handleUpdateAdvisor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(advisorPatchPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	patch := &model.Advisor{
		ID:          id,
		Name:        payload.Name,
		Designation: payload.Designation,
		Institute:   payload.Institute,
		Cell:        payload.Cell,
		Website:     payload.Website,
		Index:       payload.Index,
	}
	if payload.Email != "" {
		patch.Email = auth.NormalizeEmail(payload.Email)
	}

	if file, ferr := c.FormFile("advisor_photo"); ferr == nil && file != nil {
		current, gerr := s.store.Advisors().GetByID(c.Context(), id)
		if gerr != nil {
			return gerr
		}

		photo, uerr := s.uploads.Save(c, file, "advisors")
		if uerr != nil {
			return uerr
		}
		s.uploads.Remove(current.Photo)
		patch.Photo = photo
	}

	record, err := s.store.Advisors().Patch(c.Context(), patch)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "advisor updated", record)
}

func (s *Server) handleDeleteAdvisor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	record, err := s.store.Advisors().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if err := s.store.Advisors().Delete(c.Context(), id); err != nil {
		return err
	}

	s.uploads.Remove(record.Photo)
	return respond(c, fiber.StatusOK, "advisor deleted", nil)
}
