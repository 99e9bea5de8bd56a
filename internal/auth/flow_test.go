package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/model"
)

// MockUserStore implements auth.UserStore for testing.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*model.User)
	return created, args.Error(1)
}

func (m *MockUserStore) MarkVerified(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserStore) SetPasswordByEmail(ctx context.Context, email, passwordHash string) (*model.User, error) {
	args := m.Called(ctx, email, passwordHash)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

// recordingMailer captures dispatched messages. Sends happen on a goroutine,
// so assertions go through waitForMail.
type recordingMailer struct {
	mu   sync.Mutex
	sent []auth.MailMessage
	got  chan auth.MailMessage
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{got: make(chan auth.MailMessage, 8)}
}

func (m *recordingMailer) Send(_ context.Context, msg auth.MailMessage) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	m.got <- msg
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func waitForMail(t *testing.T, m *recordingMailer) auth.MailMessage {
	t.Helper()
	select {
	case msg := <-m.got:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("expected a mail dispatch")
		return auth.MailMessage{}
	}
}

var (
	testHashOnce sync.Once
	testHash     string
)

// bcrypt at production cost is slow, share one fixture hash across tests.
func passwordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := auth.HashPassword("sound-password")
		if err != nil {
			t.Fatal(err)
		}
		testHash = h
	})
	return testHash
}

func newTestFlow(store auth.UserStore, mailer auth.Mailer) (*auth.Flow, *auth.TokenService, *auth.TokenService, *auth.TokenService) {
	sessions := auth.NewTokenService([]byte("login-secret"), time.Hour, "kin-api", nil)
	verify := auth.NewTokenService([]byte("verify-secret"), 10*time.Minute, "kin-api", nil)
	reset := auth.NewTokenService([]byte("reset-secret"), 5*time.Minute, "kin-api", nil)

	flow := auth.NewFlow(store, mailer, sessions, verify, reset, 4, "https://kinsust.org")
	return flow, sessions, verify, reset
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unverified account and mails a code", func(t *testing.T) {
		store := new(MockUserStore)
		mail := newRecordingMailer()
		flow, _, verify, _ := newTestFlow(store, mail)

		store.On("ExistsByEmail", mock.Anything, "member@kinsust.org").Return(false, nil)
		store.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Return(&model.User{Email: "member@kinsust.org", Role: model.RoleUser}, nil)

		user, token, err := flow.Register(ctx, auth.RegisterInput{
			Name:     "A Member",
			Email:    "Member@KINSUST.org",
			Gender:   "female",
			Password: "sound-password",
		})
		assert.NoError(t, err)
		assert.False(t, user.Verified)
		assert.NotEmpty(t, token)

		// the token is a code-variant verification token for the address
		claims, err := verify.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "member@kinsust.org", claims.Email)
		assert.NotEmpty(t, claims.CodeHash)

		msg := waitForMail(t, mail)
		assert.Equal(t, "member@kinsust.org", msg.To)
		assert.Len(t, msg.Code, 4)
		assert.Contains(t, msg.Link, "/activate/")
		assert.NoError(t, auth.CompareCode(msg.Code, claims.CodeHash))

		created := store.Calls[1].Arguments.Get(1).(*model.User)
		assert.Equal(t, "member@kinsust.org", created.Email)
		assert.NotEqual(t, "sound-password", created.PasswordHash)
		assert.False(t, created.Verified)
	})

	t.Run("duplicate email conflicts before any mail", func(t *testing.T) {
		store := new(MockUserStore)
		mail := newRecordingMailer()
		flow, _, _, _ := newTestFlow(store, mail)

		store.On("ExistsByEmail", mock.Anything, "member@kinsust.org").Return(true, nil)

		_, _, err := flow.Register(ctx, auth.RegisterInput{
			Email:    "member@kinsust.org",
			Password: "sound-password",
		})
		assert.ErrorIs(t, err, auth.ErrAlreadyRegistered)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Equal(t, 0, mail.count())
	})
}

func TestActivation(t *testing.T) {
	ctx := context.Background()
	email := "member@kinsust.org"

	issueVerifyToken := func(t *testing.T, verify *auth.TokenService) (string, string) {
		t.Helper()
		code, hash, err := auth.GenerateCode(4)
		assert.NoError(t, err)
		token, err := verify.Issue(&auth.TokenClaims{Email: email, CodeHash: hash})
		assert.NoError(t, err)
		return token, code
	}

	t.Run("matching code activates the account", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, verify, _ := newTestFlow(store, newRecordingMailer())
		token, code := issueVerifyToken(t, verify)

		store.On("GetByEmail", mock.Anything, email).Return(&model.User{Email: email}, nil)
		store.On("MarkVerified", mock.Anything, email).Return(&model.User{Email: email, Verified: true}, nil)

		user, err := flow.ActivateByCode(ctx, token, code)
		assert.NoError(t, err)
		assert.True(t, user.Verified)
	})

	t.Run("wrong code leaves the account untouched", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, verify, _ := newTestFlow(store, newRecordingMailer())
		token, code := issueVerifyToken(t, verify)

		wrong := "0000"
		if wrong == code {
			wrong = "0001"
		}

		_, err := flow.ActivateByCode(ctx, token, wrong)
		assert.ErrorIs(t, err, auth.ErrCodeMismatch)
		store.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	})

	t.Run("a replayed token fails once the account is active", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, verify, _ := newTestFlow(store, newRecordingMailer())
		token, code := issueVerifyToken(t, verify)

		store.On("GetByEmail", mock.Anything, email).Return(&model.User{Email: email, Verified: true}, nil)

		_, err := flow.ActivateByCode(ctx, token, code)
		assert.ErrorIs(t, err, auth.ErrAlreadyActive)
		store.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	})

	t.Run("url variant needs only the signature", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, verify, _ := newTestFlow(store, newRecordingMailer())
		token, _ := issueVerifyToken(t, verify)

		store.On("GetByEmail", mock.Anything, email).Return(&model.User{Email: email}, nil)
		store.On("MarkVerified", mock.Anything, email).Return(&model.User{Email: email, Verified: true}, nil)

		user, err := flow.ActivateByURL(ctx, token)
		assert.NoError(t, err)
		assert.True(t, user.Verified)
	})

	t.Run("session tokens are not activation tokens", func(t *testing.T) {
		store := new(MockUserStore)
		flow, sessions, _, _ := newTestFlow(store, newRecordingMailer())

		token, err := sessions.Issue(&auth.TokenClaims{Email: email})
		assert.NoError(t, err)

		_, err = flow.ActivateByURL(ctx, token)
		assert.Error(t, err)
	})

	t.Run("resend leaves the earlier token independently valid", func(t *testing.T) {
		store := new(MockUserStore)
		mail := newRecordingMailer()
		flow, _, verify, _ := newTestFlow(store, mail)
		earlier, _ := issueVerifyToken(t, verify)

		store.On("GetByEmail", mock.Anything, email).Return(&model.User{Email: email}, nil)

		fresh, err := flow.ResendActivationCode(ctx, email)
		assert.NoError(t, err)
		assert.NotEqual(t, earlier, fresh)

		_, err = verify.Verify(earlier)
		assert.NoError(t, err)
		_, err = verify.Verify(fresh)
		assert.NoError(t, err)
	})

	t.Run("resend refuses already active accounts", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		store.On("GetByEmail", mock.Anything, email).Return(&model.User{Email: email, Verified: true}, nil)

		_, err := flow.ResendActivationCode(ctx, email)
		assert.ErrorIs(t, err, auth.ErrAlreadyActive)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	email := "member@kinsust.org"

	account := func(t *testing.T) *model.User {
		return &model.User{
			Email:        email,
			PasswordHash: passwordHash(t),
			Verified:     true,
			Role:         model.RoleUser,
		}
	}

	t.Run("valid credentials yield a session token", func(t *testing.T) {
		store := new(MockUserStore)
		flow, sessions, _, _ := newTestFlow(store, newRecordingMailer())

		store.On("GetByEmail", mock.Anything, email).Return(account(t), nil)

		user, token, err := flow.Login(ctx, strings.ToUpper(email), "sound-password")
		assert.NoError(t, err)
		assert.Equal(t, email, user.Email)

		claims, err := sessions.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, model.RoleUser, claims.UserRole)
	})

	t.Run("wrong password never says which half failed", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		store.On("GetByEmail", mock.Anything, email).Return(account(t), nil)

		_, _, err := flow.Login(ctx, email, "wrong-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown account reads the same as a wrong password", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		store.On("GetByEmail", mock.Anything, email).Return(nil, repository.NewRecordNotFound())

		_, _, err := flow.Login(ctx, email, "sound-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("banned accounts can never log in", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		banned := account(t)
		banned.Banned = true
		store.On("GetByEmail", mock.Anything, email).Return(banned, nil)

		_, _, err := flow.Login(ctx, email, "sound-password")
		assert.ErrorIs(t, err, auth.ErrAccountBanned)
	})

	t.Run("unverified accounts cannot log in", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		pending := account(t)
		pending.Verified = false
		store.On("GetByEmail", mock.Anything, email).Return(pending, nil)

		_, _, err := flow.Login(ctx, email, "sound-password")
		assert.ErrorIs(t, err, auth.ErrNotVerified)
	})

	t.Run("dashboard login rejects regular members", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		store.On("GetByEmail", mock.Anything, email).Return(account(t), nil)

		_, _, err := flow.DashboardLogin(ctx, email, "sound-password")
		assert.ErrorIs(t, err, auth.ErrNotStaff)
	})

	t.Run("dashboard login admits admins", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		admin := account(t)
		admin.Role = model.RoleAdmin
		store.On("GetByEmail", mock.Anything, email).Return(admin, nil)

		user, token, err := flow.DashboardLogin(ctx, email, "sound-password")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.NotEmpty(t, token)
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	email := "member@kinsust.org"

	t.Run("unknown email yields not found, no token, no mail", func(t *testing.T) {
		store := new(MockUserStore)
		mail := newRecordingMailer()
		flow, _, _, _ := newTestFlow(store, mail)

		store.On("ExistsByEmail", mock.Anything, email).Return(false, nil)

		token, err := flow.ForgotPassword(ctx, email)
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
		assert.Empty(t, token)
		assert.Equal(t, 0, mail.count())
	})

	t.Run("known email gets a reset token and mail", func(t *testing.T) {
		store := new(MockUserStore)
		mail := newRecordingMailer()
		flow, _, _, reset := newTestFlow(store, mail)

		store.On("ExistsByEmail", mock.Anything, email).Return(true, nil)

		token, err := flow.ForgotPassword(ctx, email)
		assert.NoError(t, err)

		claims, err := reset.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, email, claims.Email)

		msg := waitForMail(t, mail)
		assert.Contains(t, msg.Link, "/password-reset/")
		assert.NoError(t, auth.CompareCode(msg.Code, claims.CodeHash))
	})

	t.Run("reset by code swaps the stored hash", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, reset := newTestFlow(store, newRecordingMailer())

		code, hash, err := auth.GenerateCode(4)
		assert.NoError(t, err)
		token, err := reset.Issue(&auth.TokenClaims{Email: email, CodeHash: hash})
		assert.NoError(t, err)

		store.On("SetPasswordByEmail", mock.Anything, email, mock.AnythingOfType("string")).
			Return(&model.User{Email: email, Verified: true}, nil)

		user, err := flow.ResetByCode(ctx, token, code, "fresh-password")
		assert.NoError(t, err)
		assert.Equal(t, email, user.Email)

		newHash := store.Calls[0].Arguments.String(2)
		assert.NoError(t, auth.ComparePasswordAndHash("fresh-password", newHash))
	})

	t.Run("reset rejects a wrong code", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, reset := newTestFlow(store, newRecordingMailer())

		code, hash, err := auth.GenerateCode(4)
		assert.NoError(t, err)
		token, err := reset.Issue(&auth.TokenClaims{Email: email, CodeHash: hash})
		assert.NoError(t, err)

		wrong := "9999"
		if wrong == code {
			wrong = "9998"
		}

		_, err = flow.ResetByCode(ctx, token, wrong, "fresh-password")
		assert.ErrorIs(t, err, auth.ErrCodeMismatch)
		store.AssertNotCalled(t, "SetPasswordByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reset token expires after its ttl", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		expired := auth.NewTokenService([]byte("reset-secret"), -time.Minute, "kin-api", nil)
		token, err := expired.Issue(&auth.TokenClaims{Email: email})
		assert.NoError(t, err)

		_, err = flow.ResetByURL(ctx, token, "fresh-password")
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})
}

func TestFindAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the account when present", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		store.On("GetByEmail", mock.Anything, "member@kinsust.org").
			Return(&model.User{Email: "member@kinsust.org"}, nil)

		user, err := flow.FindAccount(ctx, " Member@kinsust.org ")
		assert.NoError(t, err)
		assert.Equal(t, "member@kinsust.org", user.Email)
	})

	t.Run("maps a storage miss to not found", func(t *testing.T) {
		store := new(MockUserStore)
		flow, _, _, _ := newTestFlow(store, newRecordingMailer())

		store.On("GetByEmail", mock.Anything, "ghost@kinsust.org").
			Return(nil, repository.NewRecordNotFound())

		_, err := flow.FindAccount(ctx, "ghost@kinsust.org")
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})
}
