package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/store"
)

func (s *Server) handleListCommittees(c *fiber.Ctx) error {
	q := parseListQuery(c)

	records, total, err := s.store.Committees().List(c.Context(), q)
	if err != nil {
		return err
	}

	return respondList(c, "committees", store.NewPagination(total, q), records)
}

func (s *Server) handleGetCommittee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	record, err := s.store.Committees().GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "committee", record)
}

func (s *Server) handleCreateCommittee(c *fiber.Ctx) error {
	payload := new(committeePayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	record, err := s.store.Committees().Create(c.Context(), &model.Committee{
		Name: payload.Name,
		Year: payload.Year,
	})
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, "committee created", record)
}

func (s *Server) handleUpdateCommittee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(committeePayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}

	record, err := s.store.Committees().Patch(c.Context(), &model.Committee{
		ID:   id,
		Name: payload.Name,
		Year: payload.Year,
	})
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "committee updated", record)
}

func (s *Server) handleDeleteCommittee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.store.Committees().Delete(c.Context(), id); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "committee deleted", nil)
}

func (s *Server) handleAddCommitteeMember(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(committeeMemberPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	userID := uuid.MustParse(payload.UserID)

	committee, err := s.store.Committees().GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if committee.HasMember(userID) {
		return errors.New("member already on this committee", errors.CategoryConflict).
			WithCode(errors.CodeConflict)
	}

	// member must reference a real account
	if _, err := s.store.Users().GetByID(c.Context(), userID); err != nil {
		return err
	}

	member, err := s.store.Committees().AddMember(c.Context(), &model.CommitteeMember{
		CommitteeID: id,
		UserID:      userID,
		Designation: payload.Designation,
		Index:       payload.Index,
	})
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, "member added", member)
}

func (s *Server) handleUpdateCommitteeMember(c *fiber.Ctx) error {
	if _, err := parseID(c, "id"); err != nil {
		return err
	}
	memberID, err := parseID(c, "memberId")
	if err != nil {
		return err
	}

	payload := new(committeeMemberPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}

	patch := &model.CommitteeMember{
		ID:          memberID,
		Designation: payload.Designation,
		Index:       payload.Index,
	}
	if payload.UserID != "" {
		userID, perr := uuid.Parse(payload.UserID)
		if perr != nil {
			return errors.New("invalid user_id", errors.CategoryBadInput).
				WithCode(errors.CodeBadRequest)
		}
		patch.UserID = userID
	}

	member, err := s.store.Committees().PatchMember(c.Context(), patch)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "member updated", member)
}

func (s *Server) handleRemoveCommitteeMember(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	memberID, err := parseID(c, "memberId")
	if err != nil {
		return err
	}

	if err := s.store.Committees().RemoveMember(c.Context(), id, memberID); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "member removed", nil)
}
