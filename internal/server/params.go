package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/kinsust/kin-api/internal/store"
)

func parseListQuery(c *fiber.Ctx) store.ListQuery {
	return store.ListQuery{
		Page:   c.QueryInt("page"),
		Limit:  c.QueryInt("limit"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}.Normalize()
}

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errors.New("invalid id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}
