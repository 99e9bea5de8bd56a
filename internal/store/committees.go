package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kinsust/kin-api/internal/model"
)

// Committees manages executive committee rosters and their members.
type Committees interface {
	List(ctx context.Context, q ListQuery) ([]*model.Committee, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Committee, error)
	Create(ctx context.Context, record *model.Committee) (*model.Committee, error)
	Patch(ctx context.Context, record *model.Committee) (*model.Committee, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *model.CommitteeMember) (*model.CommitteeMember, error)
	PatchMember(ctx context.Context, member *model.CommitteeMember) (*model.CommitteeMember, error)
	RemoveMember(ctx context.Context, committeeID, memberID uuid.UUID) error
}

type committees struct {
	db *bun.DB
}

var _ Committees = (*committees)(nil)

func NewCommitteesRepository(db *bun.DB) Committees {
	return &committees{db: db}
}

func (r *committees) List(ctx context.Context, q ListQuery) ([]*model.Committee, int, error) {
	var records []*model.Committee

	sel := r.db.NewSelect().
		Model(&records).
		Relation("Members", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.OrderExpr("member_index ASC")
		}).
		Relation("Members.User")

	sel = q.Apply(sel,
		[]string{"name"},
		map[string]string{
			"name": "name",
			"year": "year",
		},
		"year DESC",
	)

	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}

	count, err := ApplySearch(
		r.db.NewSelect().Model((*model.Committee)(nil)),
		q.Search,
		[]string{"name"},
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

func (r *committees) GetByID(ctx context.Context, id uuid.UUID) (*model.Committee, error) {
	record := &model.Committee{}

	err := r.db.NewSelect().
		Model(record).
		Relation("Members", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.OrderExpr("member_index ASC")
		}).
		Relation("Members.User").
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

func (r *committees) Create(ctx context.Context, record *model.Committee) (*model.Committee, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *committees) Patch(ctx context.Context, record *model.Committee) (*model.Committee, error) {
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

// Delete removes the roster and its member rows in one transaction.
func (r *committees) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*model.CommitteeMember)(nil)).
			Where("committee_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*model.Committee)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
}

func (r *committees) AddMember(ctx context.Context, member *model.CommitteeMember) (*model.CommitteeMember, error) {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(member).Exec(ctx); err != nil {
		return nil, err
	}

	return member, nil
}

func (r *committees) PatchMember(ctx context.Context, member *model.CommitteeMember) (*model.CommitteeMember, error) {
	_, err := r.db.NewUpdate().
		Model(member).
		OmitZero().
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	updated := &model.CommitteeMember{}
	err = r.db.NewSelect().
		Model(updated).
		Relation("User").
		Where("?TableAlias.id = ?", member.ID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": member.ID.String()})
		}
		return nil, err
	}

	return updated, nil
}

func (r *committees) RemoveMember(ctx context.Context, committeeID, memberID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.CommitteeMember)(nil)).
		Where("committee_id = ?", committeeID).
		Where("id = ?", memberID).
		Exec(ctx)
	return err
}
