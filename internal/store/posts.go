package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kinsust/kin-api/internal/model"
)

// Posts manages news entries, addressed by slug on the public surface.
type Posts interface {
	List(ctx context.Context, q ListQuery) ([]*model.Post, int, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	Create(ctx context.Context, record *model.Post) (*model.Post, error)
	PatchBySlug(ctx context.Context, slug string, record *model.Post) (*model.Post, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type posts struct {
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	return &posts{db: db}
}

func (r *posts) List(ctx context.Context, q ListQuery) ([]*model.Post, int, error) {
	var records []*model.Post

	sel := q.Apply(
		r.db.NewSelect().Model(&records),
		[]string{"title", "details"},
		map[string]string{
			"title": "title",
			"date":  "date",
		},
		"created_at DESC",
	)

	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}

	count, err := ApplySearch(
		r.db.NewSelect().Model((*model.Post)(nil)),
		q.Search,
		[]string{"title", "details"},
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

func (r *posts) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	record := &model.Post{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", slug).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"slug": slug})
		}
		return nil, err
	}

	return record, nil
}

func (r *posts) Create(ctx context.Context, record *model.Post) (*model.Post, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *posts) PatchBySlug(ctx context.Context, slug string, record *model.Post) (*model.Post, error) {
	res, err := r.db.NewUpdate().
		Model(record).
		OmitZero().
		Where("slug = ?", slug).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"slug": slug})
	}

	// the patch itself may rename the slug
	lookup := slug
	if record.Slug != "" {
		lookup = record.Slug
	}

	return r.GetBySlug(ctx, lookup)
}

func (r *posts) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.db.NewDelete().
		Model((*model.Post)(nil)).
		Where("slug = ?", slug).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"slug": slug})
	}

	return nil
}
