package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kinsust/kin-api/internal/model"
)

// Programs manages organization events.
type Programs interface {
	List(ctx context.Context, q ListQuery) ([]*model.Program, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Program, error)
	Create(ctx context.Context, record *model.Program) (*model.Program, error)
	Patch(ctx context.Context, record *model.Program) (*model.Program, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type programs struct {
	db *bun.DB
}

var _ Programs = (*programs)(nil)

func NewProgramsRepository(db *bun.DB) Programs {
	return &programs{db: db}
}

func (r *programs) List(ctx context.Context, q ListQuery) ([]*model.Program, int, error) {
	var records []*model.Program

	sel := q.Apply(
		r.db.NewSelect().Model(&records),
		[]string{"title", "venue"},
		map[string]string{
			"title":     "title",
			"startDate": "start_date",
		},
		"start_date DESC",
	)

	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}

	count, err := ApplySearch(
		r.db.NewSelect().Model((*model.Program)(nil)),
		q.Search,
		[]string{"title", "venue"},
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

func (r *programs) GetByID(ctx context.Context, id uuid.UUID) (*model.Program, error) {
	record := &model.Program{}

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

func (r *programs) Create(ctx context.Context, record *model.Program) (*model.Program, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *programs) Patch(ctx context.Context, record *model.Program) (*model.Program, error) {
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

func (r *programs) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*model.Program)(nil)).
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
