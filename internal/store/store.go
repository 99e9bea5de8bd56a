package store

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/kinsust/kin-api/internal/model"
)

// Manager exposes all repositories
type Manager interface {
	repository.Validator
	repository.TransactionManager

	Users() Users
	Committees() Committees
	Posts() Posts
	Programs() Programs
	Sliders() Sliders
	Advisors() Advisors
	Subscribers() Subscribers

	Init(ctx context.Context) error
}

// Open connects to the database and wraps it with bun.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return db, nil
}

type mngr struct {
	db          *bun.DB
	users       Users
	committees  Committees
	posts       Posts
	programs    Programs
	sliders     Sliders
	advisors    Advisors
	subscribers Subscribers
}

// NewManager builds every repository over the shared bun handle.
func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:          db,
		users:       NewUsersRepository(db),
		committees:  NewCommitteesRepository(db),
		posts:       NewPostsRepository(db),
		programs:    NewProgramsRepository(db),
		sliders:     NewSlidersRepository(db),
		advisors:    NewAdvisorsRepository(db),
		subscribers: NewSubscribersRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}
	if m.committees == nil {
		return errors.New("repository committees should be initialized")
	}
	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}
	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

// Init creates missing tables. The unique indexes declared on the models are
// the backstop for the non-transactional exists-then-create handler flows.
func (m mngr) Init(ctx context.Context) error {
	models := []any{
		(*model.User)(nil),
		(*model.Committee)(nil),
		(*model.CommitteeMember)(nil),
		(*model.Post)(nil),
		(*model.Program)(nil),
		(*model.Slider)(nil),
		(*model.Advisor)(nil),
		(*model.Subscriber)(nil),
	}

	for _, mdl := range models {
		if _, err := m.db.NewCreateTable().Model(mdl).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (m mngr) Users() Users             { return m.users }
func (m mngr) Committees() Committees   { return m.committees }
func (m mngr) Posts() Posts             { return m.posts }
func (m mngr) Programs() Programs       { return m.programs }
func (m mngr) Sliders() Sliders         { return m.sliders }
func (m mngr) Advisors() Advisors       { return m.advisors }
func (m mngr) Subscribers() Subscribers { return m.subscribers }
