package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/store"
)

func (s *Server) handleListSliders(c *fiber.Ctx) error {
	q := parseListQuery(c)

	records, total, err := s.store.Sliders().List(c.Context(), q)
	if err != nil {
		return err
	}

	return respondList(c, "sliders", store.NewPagination(total, q), records)
}

func (s *Server) handleCreateSlider(c *fiber.Ctx) error {
	payload := new(sliderPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	file, ferr := c.FormFile("slider_photo")
	if ferr != nil || file == nil {
		return errors.New("slider_photo is required", errors.CategoryValidation)
	}

	photo, err := s.uploads.Save(c, file, "sliders")
	if err != nil {
		return err
	}

	record, err := s.store.Sliders().Create(c.Context(), &model.Slider{
		Title: payload.Title,
		Photo: photo,
		Link:  payload.Link,
		URL:   payload.URL,
		Index: payload.Index,
	})
	if err != nil {
		s.uploads.Remove(photo)
		return err
	}

	return respond(c, fiber.StatusCreated, "slider created", record)
}

func (s *Server) handleUpdateSlider(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(sliderPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}

	patch := &model.Slider{
		ID:    id,
		Title: payload.Title,
		Link:  payload.Link,
		URL:   payload.URL,
		Index: payload.Index,
	}

	if file, ferr := c.FormFile("slider_photo"); ferr == nil && file != nil {
		current, gerr := s.store.Sliders().GetByID(c.Context(), id)
		if gerr != nil {
			return gerr
		}

		photo, uerr := s.uploads.Save(c, file, "sliders")
		if uerr != nil {
			return uerr
		}
		s.uploads.Remove(current.Photo)
		patch.Photo = photo
	}

	record, err := s.store.Sliders().Patch(c.Context(), patch)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "slider updated", record)
}

func (s *Server) handleDeleteSlider(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	record, err := s.store.Sliders().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if err := s.store.Sliders().Delete(c.Context(), id); err != nil {
		return err
	}

	s.uploads.Remove(record.Photo)
	return respond(c, fiber.StatusOK, "slider deleted", nil)
}
