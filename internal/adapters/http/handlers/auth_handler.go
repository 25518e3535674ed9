package handlers

import (
	"context"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/core/services"
	"github.com/914h/BabImmob-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SessionManager is the session store as seen by the handlers
type SessionManager interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, key string) error
	UpdateUser(ctx context.Context, key string, user domain.User) error
}

// AuthHandler handles sign in and sign out, for pages and for the JSON API
type AuthHandler struct {
	sessions SessionManager
	cfg      *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		cfg:      cfg,
	}
}

// SessionResponse is the public view of a session
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	Redirect      string       `json:"redirect,omitempty"`
}

func loginForm(f forms.LoginForm, errs forms.FieldErrors) views.Form {
	return views.Form{
		Title:  "Sign in to BabImmob",
		Action: "/login",
		Submit: "Sign in",
		Fields: []views.Field{
			views.Input("email", "Email", "email", f.Email, true),
			views.Input("password", "Password", "password", "", true),
		},
		Errors: errs,
	}
}

// LoginPage shows the sign-in form
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, views.PageLogin, "Sign in", loginForm(forms.LoginForm{}, nil))
}

// Login handles the sign-in form
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var f forms.LoginForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := f.Check(); errs != nil {
		return render(c, fiber.StatusUnprocessableEntity, views.PageLogin, "Sign in", loginForm(f, errs))
	}

	result, err := h.sessions.Login(c.UserContext(), f.Email, f.Password)
	if err != nil {
		log.Error().Err(err).Msg("❌ Login failed")
		return c.Redirect(withFlash(domain.LoginPath, "error", "The service is unavailable, please try again"), fiber.StatusSeeOther)
	}
	if !result.Success {
		return renderFlash(c, fiber.StatusUnauthorized, views.PageLogin, "Sign in", loginForm(f, nil), views.Flash{Error: result.Error})
	}

	h.startSession(c, result.Data)
	return c.Redirect(result.Data.Redirect, fiber.StatusSeeOther)
}

// Logout ends the session and goes back to the login page
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.endSession(c)
	return c.Redirect(withFlash(domain.LoginPath, "message", "You have been signed out"), fiber.StatusSeeOther)
}

// Session returns the current session
// @Summary Current session
// @Description Returns the signed-in user, or 401 when signed out
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response{data=SessionResponse}
// @Failure 401 {object} response.Response
// @Router /api/v1/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return response.Unauthorized(c, middleware.MsgSignInRequired)
	}
	user := sess.User
	return response.Success(c, "", SessionResponse{
		Authenticated: true,
		User:          &user,
		Redirect:      domain.DashboardPath(user.Role),
	})
}

// CreateSession signs in with a JSON body
// @Summary Sign in
// @Description Authenticates against the BabImmob API and sets the session cookie
// @Tags Session
// @Accept json
// @Produce json
// @Param body body forms.LoginForm true "Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} services.LoginResult
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/v1/session [post]
func (h *AuthHandler) CreateSession(c *fiber.Ctx) error {
	var f forms.LoginForm
	if err := c.BodyParser(&f); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := f.Check(); errs != nil {
		return response.ValidationFailed(c, "The given data was invalid.", errs)
	}

	result, err := h.sessions.Login(c.UserContext(), f.Email, f.Password)
	if err != nil {
		log.Error().Err(err).Msg("❌ Login failed")
		return response.BadGateway(c, "The service is unavailable, please try again")
	}
	if !result.Success {
		return c.Status(fiber.StatusUnauthorized).JSON(result)
	}

	h.startSession(c, result.Data)
	return c.JSON(result)
}

// DeleteSession signs out
// @Summary Sign out
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session [delete]
func (h *AuthHandler) DeleteSession(c *fiber.Ctx) error {
	h.endSession(c)
	return response.Success(c, "Signed out", nil)
}

func (h *AuthHandler) startSession(c *fiber.Ctx, data *services.LoginData) {
	middleware.SetSessionCookie(c, h.cfg, data.Key, time.Now().Add(h.cfg.Session.TTL))
	log.Info().Uint("user_id", data.User.ID).Str("role", string(data.User.Role)).Msg("✅ Signed in")
}

// endSession clears the session whether or not the cookie still resolves
func (h *AuthHandler) endSession(c *fiber.Ctx) {
	key := c.Cookies(h.cfg.Session.CookieName)
	if key != "" {
		if err := h.sessions.Logout(c.UserContext(), key); err != nil {
			log.Error().Err(err).Msg("❌ Failed to end session")
		}
	}
	middleware.ClearSessionCookie(c, h.cfg)
}
