package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/store"
)

func (s *Server) handleListPrograms(c *fiber.Ctx) error {
	q := parseListQuery(c)

	records, total, err := s.store.Programs().List(c.Context(), q)
	if err != nil {
		return err
	}

	return respondList(c, "programs", store.NewPagination(total, q), records)
}

func (s *Server) handleGetProgram(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	record, err := s.store.Programs().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "program", record)
}

func (s *Server) handleCreateProgram(c *fiber.Ctx) error {
	payload := new(programPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	file, ferr := c.FormFile("program_photo")
	if ferr != nil || file == nil {
		return errors.New("program_photo is required", errors.CategoryValidation)
	}

	photo, err := s.uploads.Save(c, file, "programs")
	if err != nil {
		return err
	}

	record, err := s.store.Programs().Create(c.Context(), &model.Program{
		Title:       payload.Title,
		Photo:       photo,
		FacebookURL: payload.FacebookURL,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
		Venue:       payload.Venue,
	})
	if err != nil {
		s.uploads.Remove(photo)
		return err
	}

	return respond(c, fiber.StatusCreated, "program created", record)
}

func (s *Server) handleUpdateProgram(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(programPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}

	patch := &model.Program{
		ID:          id,
		Title:       payload.Title,
		FacebookURL: payload.FacebookURL,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
		Venue:       payload.Venue,
	}

	if file, ferr := c.FormFile("program_photo"); ferr == nil && file != nil {
		current, gerr := s.store.Programs().GetByID(c.Context(), id)
		if gerr != nil {
			return gerr
		}

		photo, uerr := s.uploads.Save(c, file, "programs")
		if uerr != nil {
			return uerr
		}
		s.uploads.Remove(current.Photo)
		patch.Photo = photo
	}

	record, err := s.store.Programs().Patch(c.Context(), patch)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "program updated", record)
}

func (s *Server) handleDeleteProgram(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	record, err := s.store.Programs().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if err := s.store.Programs().Delete(c.Context(), id); err != nil {
		return err
	}

	s.uploads.Remove(record.Photo)
	return respond(c, fiber.StatusOK, "program deleted", nil)
}
