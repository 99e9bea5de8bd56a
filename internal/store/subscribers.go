package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kinsust/kin-api/internal/model"
)

// Subscribers manages newsletter signups.
type Subscribers interface {
	List(ctx context.Context, q ListQuery) ([]*model.Subscriber, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, record *model.Subscriber) (*model.Subscriber, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subscribers struct {
	db *bun.DB
}

var _ Subscribers = (*subscribers)(nil)

func NewSubscribersRepository(db *bun.DB) Subscribers {
	return &subscribers{db: db}
}

func (r *subscribers) List(ctx context.Context, q ListQuery) ([]*model.Subscriber, int, error) {
	var records []*model.Subscriber

	sel := q.Apply(
		r.db.NewSelect().Model(&records),
		[]string{"name", "email"},
		map[string]string{
			"name":  "name",
			"email": "email",
		},
		"created_at DESC",
	)

	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}

	count, err := ApplySearch(
		r.db.NewSelect().Model((*model.Subscriber)(nil)),
		q.Search,
		[]string{"name", "email"},
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

func (r *subscribers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Subscriber)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

func (r *subscribers) Create(ctx context.Context, record *model.Subscriber) (*model.Subscriber, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *subscribers) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*model.Subscriber)(nil)).
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
