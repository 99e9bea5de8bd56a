// Package server wires the HTTP surface: fiber app, middleware, validation
// and the route handlers for auth, accounts and site content.
package server

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/config"
	"github.com/kinsust/kin-api/internal/logging"
	"github.com/kinsust/kin-api/internal/store"
)

const (
	cookieAccessToken = "accessToken"
	cookieVerifyToken = "verificationToken"
	cookieResetToken  = "passwordResetToken"
	localsCurrentUser = "me"
)

// Server owns the fiber app and its collaborators.
type Server struct {
	app     *fiber.App
	cfg     config.Config
	flow    *auth.Flow
	store   store.Manager
	logger  logging.Logger
	uploads *Uploads
	limiter *ipLimiter
}

// New assembles the app. metricsMW may be nil.
func New(cfg config.Config, flrw *auth.Flow, mgr store.Manager, logger logging.Logger, metricsMW fiber.Handler) *Server {
	if logger == nil {
		logger = logging.Nop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "kin-api",
		ErrorHandler: NewErrorHandler(logger),
		BodyLimit:    10 * 1024 * 1024,
	})

	s := &Server{
		app:     app,
		cfg:     cfg,
		flow:    flrw,
		store:   mgr,
		logger:  logger.With("component", "server"),
		uploads: NewUploads(cfg.UploadDir),
		limiter: newIPLimiter(cfg.RateLimitPerHour),
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     joinOrigins(cfg.CORSOrigins),
		AllowCredentials: true,
	}))
	if metricsMW != nil {
		app.Use(metricsMW)
	}
	app.Use(s.requestLogger())

	app.Static("/public/images", cfg.UploadDir)

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api/v1")

	authg := api.Group("/auth")
	authg.Post("/register", s.requireGuest(), s.rateLimit(), s.handleRegister)
	authg.Get("/activate/:token", s.requireGuest(), s.handleActivateByURL)
	authg.Post("/activate", s.requireGuest(), s.handleActivateByCode)
	authg.Post("/resend-active-code", s.requireGuest(), s.handleResendActivationCode)
	authg.Post("/login", s.requireGuest(), s.rateLimit(), s.handleLogin)
	authg.Post("/dashboard-login", s.requireGuest(), s.rateLimit(), s.handleDashboardLogin)
	authg.Post("/find-account", s.requireGuest(), s.handleFindAccount)
	authg.Post("/logout", s.requireAuth(), s.handleLogout)
	authg.Post("/password-reset-code", s.requireGuest(), s.rateLimit(), s.handleForgotPassword)
	authg.Post("/password-reset", s.requireGuest(), s.handleResetByCode)
	authg.Patch("/password-reset/:token", s.requireGuest(), s.handleResetByURL)
	authg.Get("/me", s.requireAuth(), s.handleMe)

	users := api.Group("/users")
	users.Get("/", s.requireAuth(), s.requireStaff(), s.handleListUsers)
	users.Post("/", s.requireAuth(), s.requireStaff(), s.handleCreateUser)
	users.Patch("/password", s.requireAuth(), s.handleUpdatePassword)
	users.Delete("/bulk", s.requireAuth(), s.requireSuperAdmin(), s.handleBulkDeleteUsers)
	users.Patch("/ban/:id", s.requireAuth(), s.requireStaff(), s.handleBanUser)
	users.Patch("/unban/:id", s.requireAuth(), s.requireStaff(), s.handleUnbanUser)
	users.Patch("/role/:id", s.requireAuth(), s.requireSuperAdmin(), s.handleSetRole)
	users.Get("/:id", s.requireAuth(), s.handleGetUser)
	users.Patch("/:id", s.requireAuth(), s.handleUpdateUser)
	users.Delete("/:id", s.requireAuth(), s.requireStaff(), s.handleDeleteUser)

	ec := api.Group("/ec")
	ec.Get("/", s.handleListCommittees)
	ec.Post("/", s.requireAuth(), s.requireStaff(), s.handleCreateCommittee)
	ec.Get("/:id", s.handleGetCommittee)
	ec.Patch("/:id", s.requireAuth(), s.requireStaff(), s.handleUpdateCommittee)
	ec.Delete("/:id", s.requireAuth(), s.requireStaff(), s.handleDeleteCommittee)
	ec.Post("/:id/members", s.requireAuth(), s.requireStaff(), s.handleAddCommitteeMember)
	ec.Patch("/:id/members/:memberId", s.requireAuth(), s.requireStaff(), s.handleUpdateCommitteeMember)
	ec.Delete("/:id/members/:memberId", s.requireAuth(), s.requireStaff(), s.handleRemoveCommitteeMember)

	posts := api.Group("/posts")
	posts.Get("/", s.handleListPosts)
	posts.Post("/", s.requireAuth(), s.requireStaff(), s.handleCreatePost)
	posts.Get("/:slug", s.handleGetPost)
	posts.Patch("/:slug", s.requireAuth(), s.requireStaff(), s.handleUpdatePost)
	posts.Delete("/:slug", s.requireAuth(), s.requireStaff(), s.handleDeletePost)

	programs := api.Group("/programs")
	programs.Get("/", s.handleListPrograms)
	programs.Post("/", s.requireAuth(), s.requireStaff(), s.handleCreateProgram)
	programs.Get("/:id", s.handleGetProgram)
	programs.Patch("/:id", s.requireAuth(), s.requireStaff(), s.handleUpdateProgram)
	programs.Delete("/:id", s.requireAuth(), s.requireStaff(), s.handleDeleteProgram)

	sliders := api.Group("/sliders")
	sliders.Get("/", s.handleListSliders)
	sliders.Post("/", s.requireAuth(), s.requireStaff(), s.handleCreateSlider)
	sliders.Patch("/:id", s.requireAuth(), s.requireStaff(), s.handleUpdateSlider)
	sliders.Delete("/:id", s.requireAuth(), s.requireStaff(), s.handleDeleteSlider)

	advisors := api.Group("/advisors")
	advisors.Get("/", s.handleListAdvisors)
	advisors.Post("/", s.requireAuth(), s.requireStaff(), s.handleCreateAdvisor)
	advisors.Patch("/:id", s.requireAuth(), s.requireStaff(), s.handleUpdateAdvisor)
	advisors.Delete("/:id", s.requireAuth(), s.requireStaff(), s.handleDeleteAdvisor)

	subscribers := api.Group("/subscribers")
	subscribers.Get("/", s.requireAuth(), s.requireStaff(), s.handleListSubscribers)
	subscribers.Post("/", s.rateLimit(), s.handleCreateSubscriber)
	subscribers.Delete("/:id", s.requireAuth(), s.requireStaff(), s.handleDeleteSubscriber)

	images := api.Group("/images")
	images.Get("/:kind", s.requireAuth(), s.requireStaff(), s.handleListImages)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		s.logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start).String(),
			"ip", c.IP(),
		)
		return err
	}
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}
