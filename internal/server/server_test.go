package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/config"
	"github.com/kinsust/kin-api/internal/logging"
	"github.com/kinsust/kin-api/internal/mailer"
	"github.com/kinsust/kin-api/internal/model"
	"github.com/kinsust/kin-api/internal/server"
	"github.com/kinsust/kin-api/internal/store"
)

type testEnv struct {
	app      *fiber.App
	mgr      store.Manager
	sessions *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := store.Open(dsn)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr := store.NewManager(db)
	assert.NoError(t, mgr.Init(context.Background()))

	sessions := auth.NewTokenService([]byte("test-login-secret"), time.Hour, "kin-api", nil)
	verify := auth.NewTokenService([]byte("test-verify-secret"), time.Hour, "kin-api", nil)
	reset := auth.NewTokenService([]byte("test-reset-secret"), time.Hour, "kin-api", nil)

	flow := auth.NewFlow(mgr.Users(), mailer.NewNoop(logging.Nop()), sessions, verify, reset, 4, "http://localhost:3000")

	cfg := config.Config{
		UploadDir:        t.TempDir(),
		RateLimitPerHour: 100000,
		CORSOrigins:      []string{"http://localhost:3000"},
	}

	srv := server.New(cfg, flow, mgr, logging.Nop(), nil)

	return &testEnv{app: srv.App(), mgr: mgr, sessions: sessions}
}

func (e *testEnv) seedUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()

	created, err := e.mgr.Users().Create(context.Background(), &model.User{
		Name:         name,
		Email:        name + "@kinsust.org",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Verified:     true,
		Approved:     true,
	})
	assert.NoError(t, err)
	return created
}

func (e *testEnv) sessionCookie(t *testing.T, user *model.User) *http.Cookie {
	t.Helper()

	token, err := e.sessions.Issue(&auth.TokenClaims{
		UID:      user.ID.String(),
		Email:    user.Email,
		UserRole: user.Role,
	})
	assert.NoError(t, err)

	return &http.Cookie{Name: "accessToken", Value: token}
}

func (e *testEnv) request(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := e.app.Test(req, 15000)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	out := map[string]any{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSetRoleEndpoint(t *testing.T) {
	t.Run("superAdmin cannot change their own role", func(t *testing.T) {
		env := newTestEnv(t)
		root := env.seedUser(t, "root", model.RoleSuperAdmin)

		resp := env.request(t, fiber.MethodPatch, "/api/v1/users/role/"+root.ID.String(),
			map[string]any{"role": model.RoleAdmin}, env.sessionCookie(t, root))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		kept, err := env.mgr.Users().GetByID(context.Background(), root.ID)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleSuperAdmin, kept.Role)
	})

	t.Run("superAdmin may demote another superAdmin", func(t *testing.T) {
		env := newTestEnv(t)
		root := env.seedUser(t, "root", model.RoleSuperAdmin)
		other := env.seedUser(t, "other", model.RoleSuperAdmin)

		resp := env.request(t, fiber.MethodPatch, "/api/v1/users/role/"+other.ID.String(),
			map[string]any{"role": model.RoleAdmin}, env.sessionCookie(t, root))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])

		updated, err := env.mgr.Users().GetByID(context.Background(), other.ID)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)
	})

	t.Run("superAdmin promotes a member", func(t *testing.T) {
		env := newTestEnv(t)
		root := env.seedUser(t, "root", model.RoleSuperAdmin)
		member := env.seedUser(t, "member", model.RoleUser)

		resp := env.request(t, fiber.MethodPatch, "/api/v1/users/role/"+member.ID.String(),
			map[string]any{"role": model.RoleAdmin}, env.sessionCookie(t, root))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		updated, err := env.mgr.Users().GetByID(context.Background(), member.ID)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)
	})

	t.Run("admin caller is refused", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedUser(t, "admin", model.RoleAdmin)
		member := env.seedUser(t, "member", model.RoleUser)

		resp := env.request(t, fiber.MethodPatch, "/api/v1/users/role/"+member.ID.String(),
			map[string]any{"role": model.RoleAdmin}, env.sessionCookie(t, admin))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	t.Run("superAdmin target is undeletable", func(t *testing.T) {
		env := newTestEnv(t)
		root := env.seedUser(t, "root", model.RoleSuperAdmin)
		admin := env.seedUser(t, "admin", model.RoleAdmin)

		resp := env.request(t, fiber.MethodDelete, "/api/v1/users/"+root.ID.String(),
			nil, env.sessionCookie(t, admin))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		kept, err := env.mgr.Users().GetByID(context.Background(), root.ID)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleSuperAdmin, kept.Role)
	})

	t.Run("regular account is deleted", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedUser(t, "admin", model.RoleAdmin)
		member := env.seedUser(t, "member", model.RoleUser)

		resp := env.request(t, fiber.MethodDelete, "/api/v1/users/"+member.ID.String(),
			nil, env.sessionCookie(t, admin))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		_, err := env.mgr.Users().GetByID(context.Background(), member.ID)
		assert.Error(t, err)
	})
}

func TestBulkDeleteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	root := env.seedUser(t, "root", model.RoleSuperAdmin)
	other := env.seedUser(t, "other", model.RoleSuperAdmin)
	member := env.seedUser(t, "member", model.RoleUser)

	resp := env.request(t, fiber.MethodDelete, "/api/v1/users/bulk",
		map[string]any{"ids": []string{other.ID.String(), member.ID.String()}},
		env.sessionCookie(t, root))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data, _ := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["deleted"])

	kept, err := env.mgr.Users().GetByID(context.Background(), other.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, kept.Role)

	_, err = env.mgr.Users().GetByID(context.Background(), member.ID)
	assert.Error(t, err)
}

func TestDashboardLoginRejectsActiveSession(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", model.RoleAdmin)

	resp := env.request(t, fiber.MethodPost, "/api/v1/auth/dashboard-login",
		map[string]any{"email": admin.Email, "password": "whatever"},
		env.sessionCookie(t, admin))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetUserProjection(t *testing.T) {
	t.Run("member fetching their own record gets the public view", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.seedUser(t, "member", model.RoleUser)

		resp := env.request(t, fiber.MethodGet, "/api/v1/users/"+member.ID.String(),
			nil, env.sessionCookie(t, member))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data, _ := body["data"].(map[string]any)
		assert.Equal(t, member.Email, data["email"])
		assert.NotContains(t, data, "role")
		assert.NotContains(t, data, "isBanned")
		assert.NotContains(t, data, "isVerified")
	})

	t.Run("staff requester sees moderation fields", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedUser(t, "admin", model.RoleAdmin)
		member := env.seedUser(t, "member", model.RoleUser)

		resp := env.request(t, fiber.MethodGet, "/api/v1/users/"+member.ID.String(),
			nil, env.sessionCookie(t, admin))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data, _ := body["data"].(map[string]any)
		assert.Equal(t, model.RoleUser, data["role"])
		assert.Contains(t, data, "isBanned")
	})
}
