package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kinsust/kin-api/internal/model"
)

var markVerifiedSQL = `UPDATE "users" AS "usr"
SET
	"is_verified" = TRUE
WHERE
	"usr"."email" = ?
RETURNING *;`

var setPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?
WHERE
	"usr"."email" = ?
RETURNING *;`

// Users is the account repository.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, record *model.User) (*model.User, error)
	MarkVerified(ctx context.Context, email string) (*model.User, error)
	SetPasswordByEmail(ctx context.Context, email, passwordHash string) (*model.User, error)

	List(ctx context.Context, q ListQuery) ([]*model.User, int, error)
	Patch(ctx context.Context, record *model.User) (*model.User, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) (*model.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role model.UserRole) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
}

type users struct {
	repository.Repository[*model.User]
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*model.User](db, repository.ModelHandlers[*model.User]{
		NewRecord: func() *model.User { return &model.User{} },
		GetID: func(u *model.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *model.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string { return "email" },
	})

	return &users{Repository: repo, db: db}
}

func (r *users) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.Repository.GetByID(ctx, id.String())
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	record := &model.User{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.User)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

func (r *users) Create(ctx context.Context, record *model.User) (*model.User, error) {
	prepareUserDefaults(record)
	return r.Repository.CreateTx(ctx, r.db, record)
}

func (r *users) MarkVerified(ctx context.Context, email string) (*model.User, error) {
	return r.rawOne(ctx, markVerifiedSQL, email)
}

func (r *users) SetPasswordByEmail(ctx context.Context, email, passwordHash string) (*model.User, error) {
	return r.rawOne(ctx, setPasswordSQL, passwordHash, email)
}

func (r *users) rawOne(ctx context.Context, sql string, args ...any) (*model.User, error) {
	res, err := r.Repository.RawTx(ctx, r.db, sql, args...)
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound()
	}

	return res[0], nil
}

func (r *users) List(ctx context.Context, q ListQuery) ([]*model.User, int, error) {
	var records []*model.User

	sel := r.db.NewSelect().Model(&records)
	sel = q.Apply(sel,
		[]string{"name", "email", "mobile", "user_role"},
		map[string]string{
			"name":      "name",
			"email":     "email",
			"age":       "age",
			"createdAt": "created_at",
		},
		"created_at DESC",
	)

	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}

	count, err := ApplySearch(
		r.db.NewSelect().Model((*model.User)(nil)),
		q.Search,
		[]string{"name", "email", "mobile", "user_role"},
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}

// Patch updates the non-zero fields of record, keyed by its ID.
func (r *users) Patch(ctx context.Context, record *model.User) (*model.User, error) {
	criteria := []repository.UpdateCriteria{
		repository.UpdateByID(record.ID.String()),
		repository.UpdateSkipZeroValues(),
	}
	return r.Repository.UpdateTx(ctx, r.db, record, criteria...)
}

func (r *users) SetBanned(ctx context.Context, id uuid.UUID, banned bool) (*model.User, error) {
	_, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("is_banned = ?", banned).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return r.Repository.GetByID(ctx, id.String())
}

func (r *users) SetRole(ctx context.Context, id uuid.UUID, role model.UserRole) (*model.User, error) {
	_, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("user_role = ?", role).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return r.Repository.GetByID(ctx, id.String())
}

func (r *users) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteMany removes the given accounts, always skipping superAdmin rows.
func (r *users) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := r.db.NewDelete().
		Model((*model.User)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Where("user_role != ?", model.RoleSuperAdmin).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return int(affected), nil
}

func prepareUserDefaults(record *model.User) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Role == "" {
		record.Role = model.RoleUser
	}
}
