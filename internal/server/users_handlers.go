package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/store"
)

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	q := parseListQuery(c)

	records, total, err := s.store.Users().List(c.Context(), q)
	if err != nil {
		return err
	}

	me := currentUser(c)
	out := make([]any, 0, len(records))
	for _, u := range records {
		out = append(out, u.Project(me.Role))
	}

	return respondList(c, "users", store.NewPagination(total, q), out)
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	payload := new(createUserPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	me := currentUser(c)
	role := model.RoleUser
	if payload.Role != "" {
		if me.Role != model.RoleSuperAdmin {
			return errors.New("only superAdmin may assign roles", errors.CategoryAuthz).
				WithCode(errors.CodeForbidden)
		}
		role = payload.Role
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Name:         payload.Name,
		Email:        auth.NormalizeEmail(payload.Email),
		Gender:       payload.Gender,
		PasswordHash: hash,
		Mobile:       payload.Mobile,
		Department:   payload.Department,
		Session:      payload.Session,
		Profession:   payload.Profession,
		Organization: payload.Organization,
		Role:         role,
		Verified:     true,
		Approved:     true,
	}

	created, err := s.store.Users().Create(c.Context(), user)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, "user created", created.Project(me.Role))
}

func (s *Server) handleGetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := s.store.Users().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	// Projection depends on the requester's role alone; fetching your own
	// record goes through the same filter as everyone else's.
	me := currentUser(c)
	return respond(c, fiber.StatusOK, "user", user.Project(me.Role))
}

func (s *Server) handleUpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	me := currentUser(c)
	if me.ID != id && !model.IsStaff(me.Role) {
		return errors.New("cannot edit another member's profile", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	payload := new(updateUserPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	target, err := s.store.Users().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	patch := &model.User{
		ID:           id,
		Name:         payload.Name,
		Gender:       payload.Gender,
		Mobile:       payload.Mobile,
		Department:   payload.Department,
		Session:      payload.Session,
		Profession:   payload.Profession,
		Organization: payload.Organization,
		BloodGroup:   payload.BloodGroup,
		Age:          payload.Age,
		Location:     payload.Location,
		Feedback:     payload.Feedback,
		FacebookURL:  payload.FacebookURL,
		InstagramURL: payload.InstagramURL,
		LinkedinURL:  payload.LinkedinURL,
	}

	if file, ferr := c.FormFile("user_photo"); ferr == nil && file != nil {
		path, uerr := s.uploads.Save(c, file, "users")
		if uerr != nil {
			return uerr
		}
		if target.Photo != "" {
			s.uploads.Remove(target.Photo)
		}
		patch.Photo = path
	}

	updated, err := s.store.Users().Patch(c.Context(), patch)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "profile updated", updated.Project(me.Role))
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	target, err := s.store.Users().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if target.Role == model.RoleSuperAdmin {
		return errors.New("superAdmin accounts cannot be deleted", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	if err := s.store.Users().Delete(c.Context(), id); err != nil {
		return err
	}

	if target.Photo != "" {
		s.uploads.Remove(target.Photo)
	}

	return respond(c, fiber.StatusOK, "user deleted", nil)
}

func (s *Server) handleUpdatePassword(c *fiber.Ctx) error {
	payload := new(passwordUpdatePayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	me := currentUser(c)
	if err := auth.ComparePasswordAndHash(payload.OldPassword, me.PasswordHash); err != nil {
		return err
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	if _, err := s.store.Users().SetPasswordByEmail(c.Context(), me.Email, hash); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "password updated", nil)
}

func (s *Server) handleBanUser(c *fiber.Ctx) error {
	return s.setBanState(c, true, "user banned", "user is already banned")
}

func (s *Server) handleUnbanUser(c *fiber.Ctx) error {
	return s.setBanState(c, false, "user unbanned", "user is not banned")
}

func (s *Server) setBanState(c *fiber.Ctx, banned bool, okMsg, conflictMsg string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	target, err := s.store.Users().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if target.Role == model.RoleSuperAdmin {
		return errors.New("superAdmin accounts cannot be banned", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	if target.Banned == banned {
		return errors.New(conflictMsg, errors.CategoryConflict).
			WithCode(errors.CodeConflict)
	}

	me := currentUser(c)
	updated, err := s.store.Users().SetBanned(c.Context(), id, banned)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, okMsg, updated.Project(me.Role))
}

func (s *Server) handleSetRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(rolePayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	target, err := s.store.Users().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	// A superAdmin may reassign another superAdmin, never themselves.
	me := currentUser(c)
	if target.Role == model.RoleSuperAdmin && target.ID == me.ID {
		return errors.New("cannot change your own superAdmin role", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	updated, err := s.store.Users().SetRole(c.Context(), id, payload.Role)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "role updated", updated.Project(me.Role))
}

func (s *Server) handleBulkDeleteUsers(c *fiber.Ctx) error {
	payload := new(bulkDeletePayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(payload.IDs))
	for _, raw := range payload.IDs {
		id, perr := uuid.Parse(raw)
		if perr != nil {
			return errors.New("invalid id "+raw, errors.CategoryBadInput).
				WithCode(errors.CodeBadRequest)
		}
		ids = append(ids, id)
	}

	deleted, err := s.store.Users().DeleteMany(c.Context(), ids)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "accounts deleted", fiber.Map{"deleted": deleted})
}
