package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kinsust/kin-api/internal/model"
)

// Sliders manages the landing page carousel. Entries come back ordered by
// their display index so the client can render them as-is.
type Sliders interface {
	List(ctx context.Context, q ListQuery) ([]*model.Slider, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slider, error)
	Create(ctx context.Context, record *model.Slider) (*model.Slider, error)
	Patch(ctx context.Context, record *model.Slider) (*model.Slider, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sliders struct {
	db *bun.DB
}

var _ Sliders = (*sliders)(nil)

func NewSlidersRepository(db *bun.DB) Sliders {
	return &sliders{db: db}
}

func (r *sliders) List(ctx context.Context, q ListQuery) ([]*model.Slider, int, error) {
	var records []*model.Slider

	sel := q.Apply(
		r.db.NewSelect().Model(&records),
		[]string{"title"},
		map[string]string{
			"title": "title",
			"index": "slider_index",
		},
		"slider_index ASC",
	)

	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}

	count, err := ApplySearch(
		r.db.NewSelect().Model((*model.Slider)(nil)),
		q.Search,
		[]string{"title"},
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

func (r *sliders) GetByID(ctx context.Context, id uuid.UUID) (*model.Slider, error) {
	record := &model.Slider{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (r *sliders) Create(ctx context.Context, record *model.Slider) (*model.Slider, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *sliders) Patch(ctx context.Context, record *model.Slider) (*model.Slider, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		OmitZero().
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, record.ID)
}

func (r *sliders) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*model.Slider)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}
