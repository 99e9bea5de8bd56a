package server

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"golang.org/x/time/rate"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/model"
)

// requireAuth resolves the session from the accessToken cookie or a bearer
// header, loads the account and stashes both in locals.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := sessionToken(c)
		if raw == "" {
			return errors.New("missing credentials", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized)
		}

		claims, err := s.flow.SessionFromToken(raw)
		if err != nil {
			return err
		}

		user, err := s.store.Users().GetByEmail(c.Context(), claims.Email)
		if err != nil {
			return errors.New("account no longer exists", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized)
		}

		if user.Banned {
			return auth.ErrAccountBanned
		}

		c.Locals(localsCurrentUser, user)
		return c.Next()
	}
}

// requireGuest rejects callers that already hold a valid session. The auth
// endpoints are for anonymous visitors.
func (s *Server) requireGuest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := sessionToken(c)
		if raw == "" {
			return c.Next()
		}

		if _, err := s.flow.SessionFromToken(raw); err != nil {
			// stale or garbage token, treat as guest
			return c.Next()
		}

		return errors.New("already logged in", errors.CategoryConflict).
			WithTextCode("ALREADY_AUTHENTICATED")
	}
}

func (s *Server) requireStaff() fiber.Handler {
	return s.requireRoles(model.RoleAdmin, model.RoleSuperAdmin)
}

func (s *Server) requireSuperAdmin() fiber.Handler {
	return s.requireRoles(model.RoleSuperAdmin)
}

func (s *Server) requireRoles(roles ...model.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		me := currentUser(c)
		if me == nil {
			return errors.New("missing credentials", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized)
		}

		for _, role := range roles {
			if me.Role == role {
				return c.Next()
			}
		}

		return errors.New("insufficient role", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}
}

func currentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localsCurrentUser).(*model.User)
	return user
}

func sessionToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(cookieAccessToken); cookie != "" {
		return cookie
	}

	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	return ""
}

// ipLimiter keeps one token bucket per client address. Buckets refill at an
// hourly rate and are never evicted; the member base is small enough that
// this is not a concern.
type ipLimiter struct {
	mu      sync.Mutex
	perHour int
	buckets map[string]*rate.Limiter
}

func newIPLimiter(perHour int) *ipLimiter {
	if perHour <= 0 {
		perHour = 100
	}
	return &ipLimiter{
		perHour: perHour,
		buckets: map[string]*rate.Limiter{},
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[ip]
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(float64(l.perHour)/3600.0), l.perHour)
		l.buckets[ip] = bucket
	}

	return bucket.Allow()
}

func (s *Server) rateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.limiter.allow(c.IP()) {
			return errors.New("too many requests from this address", errors.CategoryRateLimit)
		}
		return c.Next()
	}
}
