package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/model"
)

func (s *Server) setCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (s *Server) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	payload := new(registerPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	user, token, err := s.flow.Register(c.Context(), auth.RegisterInput{
		Name:         payload.Name,
		Email:        payload.Email,
		Gender:       payload.Gender,
		Password:     payload.Password,
		Mobile:       payload.Mobile,
		Department:   payload.Department,
		Session:      payload.Session,
		Profession:   payload.Profession,
		Organization: payload.Organization,
	})
	if err != nil {
		return err
	}

	s.setCookie(c, cookieVerifyToken, token, s.cfg.VerifyTTL)

	return respond(c, fiber.StatusCreated,
		"registration successful, a verification code was sent to "+user.Email,
		user.Public())
}

func (s *Server) handleActivateByURL(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return auth.ErrTokenInvalid
	}

	user, err := s.flow.ActivateByURL(c.Context(), token)
	if err != nil {
		return err
	}

	s.clearCookie(c, cookieVerifyToken)
	return respond(c, fiber.StatusOK, "account activated", user.Public())
}

func (s *Server) handleActivateByCode(c *fiber.Ctx) error {
	payload := new(activatePayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	token := c.Cookies(cookieVerifyToken)
	if token == "" {
		return auth.ErrTokenInvalid
	}

	user, err := s.flow.ActivateByCode(c.Context(), token, payload.Code)
	if err != nil {
		return err
	}

	s.clearCookie(c, cookieVerifyToken)
	return respond(c, fiber.StatusOK, "account activated", user.Public())
}

func (s *Server) handleResendActivationCode(c *fiber.Ctx) error {
	payload := new(emailPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := s.flow.ResendActivationCode(c.Context(), payload.Email)
	if err != nil {
		return err
	}

	s.setCookie(c, cookieVerifyToken, token, s.cfg.VerifyTTL)
	return respond(c, fiber.StatusOK, "a new verification code was sent", nil)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	return s.login(c, s.flow.Login)
}

func (s *Server) handleDashboardLogin(c *fiber.Ctx) error {
	return s.login(c, s.flow.DashboardLogin)
}

func (s *Server) login(c *fiber.Ctx, do func(ctx context.Context, email, password string) (*model.User, string, error)) error {
	payload := new(loginPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	user, token, err := do(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	s.setCookie(c, cookieAccessToken, token, s.cfg.LoginTTL)
	return respond(c, fiber.StatusOK, "login successful", user.Project(user.Role))
}

func (s *Server) handleFindAccount(c *fiber.Ctx) error {
	payload := new(emailPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := s.flow.FindAccount(c.Context(), payload.Email)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "account found", user.Public())
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	s.clearCookie(c, cookieAccessToken)
	return respond(c, fiber.StatusOK, "logged out", nil)
}

func (s *Server) handleForgotPassword(c *fiber.Ctx) error {
	payload := new(emailPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := s.flow.ForgotPassword(c.Context(), payload.Email)
	if err != nil {
		return err
	}

	s.setCookie(c, cookieResetToken, token, s.cfg.ResetTTL)
	return respond(c, fiber.StatusOK, "a password reset code was sent", nil)
}

func (s *Server) handleResetByCode(c *fiber.Ctx) error {
	payload := new(resetCodePayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	token := c.Cookies(cookieResetToken)
	if token == "" {
		return auth.ErrTokenInvalid
	}

	user, err := s.flow.ResetByCode(c.Context(), token, payload.Code, payload.Password)
	if err != nil {
		return err
	}

	s.clearCookie(c, cookieResetToken)
	return respond(c, fiber.StatusOK, "password updated, log in with the new password", user.Public())
}

func (s *Server) handleResetByURL(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return auth.ErrTokenInvalid
	}

	payload := new(resetURLPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "malformed request body")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := s.flow.ResetByURL(c.Context(), token, payload.Password)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "password updated, log in with the new password", user.Public())
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	me := currentUser(c)
	return respond(c, fiber.StatusOK, "current account", me.Project(me.Role))
}
