package middleware

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/core/services"
	"github.com/914h/BabImmob-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	localSession = "session"
	localKey     = "session_key"
	localReason  = "session_reason"
)

// Messages shown on the login page when a session ends on its own
const (
	MsgSessionExpired = "Your session has expired, please sign in again"
	MsgRoleChanged    = "Your account role has changed, please sign in again"
	MsgSignInRequired = "Please sign in to continue"
	MsgNotAllowed     = "You don't have permission to access this page"
)

// SessionResolver resolves the session behind a cookie key
type SessionResolver interface {
	Resolve(ctx context.Context, key string) (*services.Session, error)
}

// SessionRevoker ends a session the API no longer accepts
type SessionRevoker interface {
	Revoke(ctx context.Context, key string)
}

// SessionLoader resolves the session cookie and stores the session in the context.
// Stale cookies are cleared; storage and API failures abort the request.
func SessionLoader(sessions SessionResolver, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Cookies(cfg.Session.CookieName)
		if key == "" {
			return c.Next()
		}

		sess, err := sessions.Resolve(c.UserContext(), key)
		switch {
		case err == nil:
			c.Locals(localSession, sess)
			c.Locals(localKey, key)
		case errors.Is(err, services.ErrSessionExpired):
			c.Locals(localReason, MsgSessionExpired)
			ClearSessionCookie(c, cfg)
		case errors.Is(err, services.ErrRoleMismatch):
			c.Locals(localReason, MsgRoleChanged)
			ClearSessionCookie(c, cfg)
		case errors.Is(err, services.ErrNoSession):
			ClearSessionCookie(c, cfg)
		default:
			log.Error().Err(err).Str("path", c.Path()).Msg("❌ Failed to resolve session")
			return fiber.NewError(fiber.StatusServiceUnavailable, "Unable to verify your session, please retry")
		}

		return c.Next()
	}
}

// RequireRole lets the request through only for a resolved session whose role is
// one of roles. Anyone else is sent to the login page (or gets a 401 JSON answer)
// before the handler runs.
func RequireRole(roles ...domain.Role) fiber.Handler {
	allowed := domain.NewRoleSet(roles...)

	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil {
			reason, _ := c.Locals(localReason).(string)
			if reason == "" {
				reason = MsgSignInRequired
			}
			return deny(c, fiber.StatusUnauthorized, reason)
		}

		if len(allowed) > 0 && !allowed.Has(sess.Role()) {
			log.Warn().
				Uint("user_id", sess.User.ID).
				Str("role", string(sess.Role())).
				Str("path", c.Path()).
				Msg("⚠️ Role not allowed on route")
			return deny(c, fiber.StatusForbidden, MsgNotAllowed)
		}

		return c.Next()
	}
}

// AdminOnly allows only the admin role
func AdminOnly() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// Authenticated allows any signed-in role
func Authenticated() fiber.Handler {
	return RequireRole(domain.RoleAdmin, domain.RoleOwner, domain.RoleClient, domain.RoleAgent)
}

// GuestOnly sends signed-in users to their dashboard, used on the login page
func GuestOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess := CurrentSession(c); sess != nil {
			return c.Redirect(domain.DashboardPath(sess.Role()), fiber.StatusFound)
		}
		return c.Next()
	}
}

// UnauthorizedInterceptor catches API 401 errors coming back from any handler:
// the session is revoked, the cookie cleared and the browser sent to the login page.
func UnauthorizedInterceptor(sessions SessionRevoker, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil || !errors.Is(err, api.ErrUnauthorized) {
			return err
		}

		log.Info().Str("path", c.Path()).Msg("🔒 API rejected the session token")
		sessions.Revoke(c.UserContext(), SessionKey(c))
		ClearSessionCookie(c, cfg)
		c.Locals(localSession, nil)
		return deny(c, fiber.StatusUnauthorized, MsgSessionExpired)
	}
}

func deny(c *fiber.Ctx, status int, message string) error {
	if WantsJSON(c) {
		if status == fiber.StatusForbidden {
			return response.Forbidden(c, message)
		}
		return response.Unauthorized(c, message)
	}
	return c.Redirect(LoginURL(message), fiber.StatusFound)
}

// LoginURL is the login page with an error message to display
func LoginURL(message string) string {
	if message == "" {
		return domain.LoginPath
	}
	return domain.LoginPath + "?error=" + url.QueryEscape(message)
}

// CurrentSession returns the session resolved by SessionLoader, nil when signed out
func CurrentSession(c *fiber.Ctx) *services.Session {
	sess, _ := c.Locals(localSession).(*services.Session)
	return sess
}

// CurrentUser returns the signed-in user, nil when signed out
func CurrentUser(c *fiber.Ctx) *domain.User {
	if sess := CurrentSession(c); sess != nil {
		u := sess.User
		return &u
	}
	return nil
}

// SessionKey returns the raw cookie key of the resolved session
func SessionKey(c *fiber.Ctx) string {
	key, _ := c.Locals(localKey).(string)
	return key
}

// SetSessionCookie hands the session key to the browser
func SetSessionCookie(c *fiber.Ctx, cfg *config.Config, key string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    key,
		Path:     "/",
		Domain:   cfg.Cookie.Domain,
		Expires:  expires,
		Secure:   cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: cfg.Cookie.SameSite,
	})
}

// ClearSessionCookie removes the session cookie from the browser
func ClearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Cookie.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: cfg.Cookie.SameSite,
	})
}
