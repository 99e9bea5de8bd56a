package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/store"
)

func (s *Server) handleListPosts(c *fiber.Ctx) error {
	q := parseListQuery(c)

	records, total, err := s.store.Posts().List(c.Context(), q)
	if err != nil {
		return err
	}

	return respondList(c, "posts", store.NewPagination(total, q), records)
}

func (s *Server) handleGetPost(c *fiber.Ctx) error {
	record, err := s.store.Posts().GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "post", record)
}

func (s *Server) handleCreatePost(c *fiber.Ctx) error {
	payload := new(postPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	file, ferr := c.FormFile("post_photo")
	if ferr != nil || file == nil {
		return errors.New("post_photo is required", errors.CategoryValidation)
	}

	photo, err := s.uploads.Save(c, file, "posts")
	if err != nil {
		return err
	}

	record, err := s.store.Posts().Create(c.Context(), &model.Post{
		Title:   payload.Title,
		Slug:    payload.Slug,
		Photo:   photo,
		Banner:  payload.Banner,
		Details: payload.Details,
		Date:    payload.Date,
	})
	if err != nil {
		s.uploads.Remove(photo)
		return err
	}

	return respond(c, fiber.StatusCreated, "post created", record)
}

func (s *Server) handleUpdatePost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	payload := new(postPatchPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	patch := &model.Post{
		Title:   payload.Title,
		Slug:    payload.Slug,
		Banner:  payload.Banner,
		Details: payload.Details,
		Date:    payload.Date,
	}

	if file, ferr := c.FormFile("post_photo"); ferr == nil && file != nil {
		current, gerr := s.store.Posts().GetBySlug(c.Context(), slug)
		if gerr != nil {
			return gerr
		}

		photo, uerr := s.uploads.Save(c, file, "posts")
		if uerr != nil {
			return uerr
		}
		s.uploads.Remove(current.Photo)
		patch.Photo = photo
	}

	record, err := s.store.Posts().PatchBySlug(c.Context(), slug, patch)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "post updated", record)
}

func (s *Server) handleDeletePost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	record, err := s.store.Posts().GetBySlug(c.Context(), slug)
	if err != nil {
		return err
	}

	if err := s.store.Posts().DeleteBySlug(c.Context(), slug); err != nil {
		return err
	}

	s.uploads.Remove(record.Photo)
	return respond(c, fiber.StatusOK, "post deleted", nil)
}
