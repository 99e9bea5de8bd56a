package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kinsust/kin-api/internal/model"
)

// Advisors manages faculty advisor profiles.
type Advisors interface {
	List(ctx context.Context, q ListQuery) ([]*model.Advisor, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Advisor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, record *model.Advisor) (*model.Advisor, error)
	Patch(ctx context.Context, record *model.Advisor) (*model.Advisor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type advisors struct {
	db *bun.DB
}

var _ Advisors = (*advisors)(nil)

func NewAdvisorsRepository(db *bun.DB) Advisors {
	return &advisors{db: db}
}

func (r *advisors) List(ctx context.Context, q ListQuery) ([]*model.Advisor, int, error) {
	var records []*model.Advisor

	sel := q.Apply(
		r.db.NewSelect().Model(&records),
		[]string{"name", "designation", "institute"},
		map[string]string{
			"name":  "name",
			"index": "advisor_index",
		},
		"advisor_index ASC",
	)

	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}

	count, err := ApplySearch(
		r.db.NewSelect().Model((*model.Advisor)(nil)),
		q.Search,
		[]string{"name", "designation", "institute"},
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

func (r *advisors) GetByID(ctx context.Context, id uuid.UUID) (*model.Advisor, error) {
	record := &model.Advisor{}

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

func (r *advisors) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Advisor)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

func (r *advisors) Create(ctx context.Context, record *model.Advisor) (*model.Advisor, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *advisors) Patch(ctx context.Context, record *model.Advisor) (*model.Advisor, error) {
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

func (r *advisors) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*model.Advisor)(nil)).
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
