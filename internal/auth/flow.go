package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"

	"github.com/kinsust/kin-api/internal/logging"
	"github.com/kinsust/kin-api/internal/model"
)

// UserStore is the slice of the credential store the auth flow depends on.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
	MarkVerified(ctx context.Context, email string) (*model.User, error)
	SetPasswordByEmail(ctx context.Context, email, passwordHash string) (*model.User, error)
}

// MailMessage is the contract with the mailer collaborator.
type MailMessage struct {
	To      string
	Subject string
	Code    string
	Token   string
	Link    string
}

// Mailer delivers codes and links out of band. The flow never retries.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// RegisterInput is the payload accepted by Register. Validation happens at
// the HTTP boundary; by the time it reaches the flow the shape is trusted.
type RegisterInput struct {
	Name         string
	Email        string
	Gender       string
	Password     string
	Mobile       string
	Department   string
	Session      string
	Profession   string
	Organization string
}

// Flow orchestrates the account lifecycle: registration, verification,
// login and password reset. It owns no HTTP concerns; handlers translate
// its results into cookies and envelopes.
type Flow struct {
	store    UserStore
	mailer   Mailer
	sessions *TokenService
	verify   *TokenService
	reset    *TokenService

	codeLength int
	clientURL  string
	logger     logging.Logger
	activity   ActivitySink
}

// NewFlow wires the auth flow with its collaborators.
func NewFlow(store UserStore, mailer Mailer, sessions, verify, reset *TokenService, codeLength int, clientURL string) *Flow {
	return &Flow{
		store:      store,
		mailer:     mailer,
		sessions:   sessions,
		verify:     verify,
		reset:      reset,
		codeLength: codeLength,
		clientURL:  clientURL,
		logger:     logging.Nop(),
		activity:   noopActivitySink{},
	}
}

func (f *Flow) WithLogger(logger logging.Logger) *Flow {
	if logger != nil {
		f.logger = logger
	}
	return f
}

func (f *Flow) WithActivitySink(sink ActivitySink) *Flow {
	f.activity = normalizeActivitySink(sink)
	return f
}

// NormalizeEmail lowercases and trims an address. Every store lookup and
// token payload goes through this so lookups never miss on case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and dispatches an activation code.
// The returned token must be transported back by the client (cookie) for the
// code variant of activation.
func (f *Flow) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	email := NormalizeEmail(in.Email)

	exists, err := f.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing account")
	}
	if exists {
		return nil, "", ErrAlreadyRegistered
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Gender:       strings.ToLower(in.Gender),
		Department:   in.Department,
		Session:      in.Session,
		Profession:   in.Profession,
		Organization: in.Organization,
		Mobile:       in.Mobile,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	// Deterministic IDs keep re-registration of the same address idempotent
	// at the storage layer; the unique index on email is the real backstop.
	if id, err := hashid.NewUUID(email); err == nil {
		user.ID = id
	}

	created, err := f.store.Create(ctx, user)
	if err != nil {
		return nil, "", translateStoreError(err, "could not create user account")
	}

	token, err := f.dispatchCode(ctx, f.verify, email, "Account Activation Code", "/activate/")
	if err != nil {
		return nil, "", err
	}

	f.record(ctx, ActivityEventRegister, email)

	return created, token, nil
}

// ActivateByCode verifies the cookie token, compares the supplied code
// against the embedded hash and marks the account verified.
func (f *Flow) ActivateByCode(ctx context.Context, token, code string) (*model.User, error) {
	claims, err := f.verify.Verify(token)
	if err != nil {
		f.record(ctx, ActivityEventActivationFailure, "")
		return nil, err
	}

	if err := CompareCode(code, claims.CodeHash); err != nil {
		f.record(ctx, ActivityEventActivationFailure, claims.Email)
		return nil, err
	}

	return f.activate(ctx, claims.Email)
}

// ActivateByURL trusts the token signature alone; the URL variant carries no
// second factor.
func (f *Flow) ActivateByURL(ctx context.Context, token string) (*model.User, error) {
	claims, err := f.verify.Verify(token)
	if err != nil {
		f.record(ctx, ActivityEventActivationFailure, "")
		return nil, err
	}

	return f.activate(ctx, claims.Email)
}

func (f *Flow) activate(ctx context.Context, email string) (*model.User, error) {
	user, err := f.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	// A replayed activation token is unusable once the account is active.
	if user.Verified {
		return nil, ErrAlreadyActive
	}

	updated, err := f.store.MarkVerified(ctx, email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account verified")
	}

	f.record(ctx, ActivityEventActivationSuccess, email)

	return updated, nil
}

// ResendActivationCode issues a fresh code for a still-unverified account.
// A previously issued token stays valid until its own expiry.
func (f *Flow) ResendActivationCode(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	user, err := f.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrAccountNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	if user.Verified {
		return "", ErrAlreadyActive
	}

	return f.dispatchCode(ctx, f.verify, email, "Account Activation Code", "/activate/")
}

// Login validates credentials and returns the account with a session token.
func (f *Flow) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)

	user, err := f.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			f.record(ctx, ActivityEventLoginFailure, email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		f.record(ctx, ActivityEventLoginFailure, email)
		return nil, "", ErrInvalidCredentials
	}

	if user.Banned {
		f.record(ctx, ActivityEventLoginFailure, email)
		return nil, "", ErrAccountBanned
	}

	if !user.Verified {
		f.record(ctx, ActivityEventLoginFailure, email)
		return nil, "", ErrNotVerified
	}

	token, err := f.sessions.Issue(&TokenClaims{
		UID:      user.ID.String(),
		Email:    user.Email,
		UserRole: user.Role,
	})
	if err != nil {
		return nil, "", err
	}

	f.record(ctx, ActivityEventLoginSuccess, email)

	return user, token, nil
}

// DashboardLogin is Login restricted to admin and superAdmin accounts.
func (f *Flow) DashboardLogin(ctx context.Context, email, password string) (*model.User, string, error) {
	user, token, err := f.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	if !model.IsStaff(user.Role) {
		f.record(ctx, ActivityEventLoginFailure, user.Email)
		return nil, "", ErrNotStaff
	}

	return user, token, nil
}

// FindAccount looks an account up by email for the account-recovery screen.
func (f *Flow) FindAccount(ctx context.Context, email string) (*model.User, error) {
	user, err := f.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}
	return user, nil
}

// ForgotPassword issues a reset code for an existing account. Unknown emails
// fail before any token is issued or mail dispatched.
func (f *Flow) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	exists, err := f.store.ExistsByEmail(ctx, email)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check account")
	}
	if !exists {
		return "", ErrAccountNotFound
	}

	token, err := f.dispatchCode(ctx, f.reset, email, "Password Reset Code", "/password-reset/")
	if err != nil {
		return "", err
	}

	f.record(ctx, ActivityEventResetRequested, email)

	return token, nil
}

// ResetByCode verifies the cookie token and the supplied code, then swaps
// the stored password hash.
func (f *Flow) ResetByCode(ctx context.Context, token, code, newPassword string) (*model.User, error) {
	claims, err := f.reset.Verify(token)
	if err != nil {
		f.record(ctx, ActivityEventResetFailure, "")
		return nil, err
	}

	if err := CompareCode(code, claims.CodeHash); err != nil {
		f.record(ctx, ActivityEventResetFailure, claims.Email)
		return nil, err
	}

	return f.resetPassword(ctx, claims.Email, newPassword)
}

// ResetByURL is the link variant: the signature alone authorizes the reset.
func (f *Flow) ResetByURL(ctx context.Context, token, newPassword string) (*model.User, error) {
	claims, err := f.reset.Verify(token)
	if err != nil {
		f.record(ctx, ActivityEventResetFailure, "")
		return nil, err
	}

	return f.resetPassword(ctx, claims.Email, newPassword)
}

func (f *Flow) resetPassword(ctx context.Context, email, newPassword string) (*model.User, error) {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	user, err := f.store.SetPasswordByEmail(ctx, email, hash)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
	}

	f.record(ctx, ActivityEventResetSuccess, email)

	return user, nil
}

// SessionFromToken validates a session token for the access guard.
func (f *Flow) SessionFromToken(raw string) (*TokenClaims, error) {
	return f.sessions.Verify(raw)
}

// dispatchCode generates a code, embeds its hash in a token signed by the
// given service and fires the mail off without waiting. Mailer failure is
// logged and never rolls anything back.
func (f *Flow) dispatchCode(ctx context.Context, tokens *TokenService, email, subject, linkPath string) (string, error) {
	code, codeHash, err := GenerateCode(f.codeLength)
	if err != nil {
		return "", err
	}

	token, err := tokens.Issue(&TokenClaims{
		Email:    email,
		CodeHash: codeHash,
	})
	if err != nil {
		return "", err
	}

	msg := MailMessage{
		To:      email,
		Subject: subject,
		Code:    code,
		Token:   token,
		Link:    f.clientURL + linkPath + token,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := f.mailer.Send(ctx, msg); err != nil {
			f.logger.Error("mail dispatch failed", "to", email, "subject", subject, "error", err)
		}
	}()

	return token, nil
}

func (f *Flow) record(ctx context.Context, event ActivityEventType, email string) {
	e := ActivityEvent{
		EventType:  event,
		Email:      email,
		OccurredAt: time.Now(),
	}

	if err := f.activity.Record(ctx, e); err != nil {
		f.logger.Warn("activity sink record error", "error", err)
	}
}

// translateStoreError rewrites storage constraint violations into the
// conflict the user can act on.
func translateStoreError(err error, fallback string) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key") {
		return ErrAlreadyRegistered
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, fallback)
}
