package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const msgActionFailed = "Something went wrong, please try again"

// render shows a page inside the layout with the flash read from the query string
func render(c *fiber.Ctx, status int, name, title string, content any) error {
	return renderFlash(c, status, name, title, content, views.Flash{Message: c.Query("message"), Error: c.Query("error")})
}

func renderFlash(c *fiber.Ctx, status int, name, title string, content any, flash views.Flash) error {
	page := views.NewPage(title, middleware.CurrentUser(c), c.Path(), content)
	page.Flash = flash
	return c.Status(status).Render(name, page, views.Layout)
}

// withFlash appends a one-shot message to a redirect target
func withFlash(path, key, message string) string {
	if message == "" {
		return path
	}
	return path + "?" + key + "=" + url.QueryEscape(message)
}

// done answers a successful mutation: JSON for page scripts, a redirect that
// refetches the list for everyone else
func done(c *fiber.Ctx, redirect, message string, data any) error {
	if middleware.WantsJSON(c) {
		return response.Success(c, message, data)
	}
	return c.Redirect(withFlash(redirect, "message", message), fiber.StatusSeeOther)
}

// failed answers a failed API call. A 401 is handed back to the interceptor;
// anything else becomes a flash on redirect (or a JSON error) and is logged.
func failed(c *fiber.Ctx, err error, redirect, fallback string) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return err
	}

	status := fiber.StatusBadGateway
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		status = apiErr.Status
	} else {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("❌ API call failed")
	}

	message := api.Message(err, fallback)
	if status >= fiber.StatusInternalServerError {
		message = fallback
	}
	if middleware.WantsJSON(c) {
		return response.Error(c, status, message)
	}
	return c.Redirect(withFlash(redirect, "error", message), fiber.StatusSeeOther)
}

// apiFieldErrors extracts server-side validation messages, nil for other errors
func apiFieldErrors(err error) forms.FieldErrors {
	fields, ok := api.FieldErrors(err)
	if !ok {
		return nil
	}
	return forms.FieldErrors(fields)
}

// paramID reads the :id route parameter
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}

// servicesFor binds the API clients to the token of the signed-in user
func servicesFor(c *fiber.Ctx, client *api.Client) *api.Services {
	if sess := middleware.CurrentSession(c); sess != nil {
		return client.For(sess.Token)
	}
	return api.NewServices(client)
}

func userName(u *domain.User, fallbackID uint) string {
	if u != nil && u.FullName() != "" {
		return u.FullName()
	}
	if fallbackID == 0 {
		return "-"
	}
	return fmt.Sprintf("#%d", fallbackID)
}

func propertyName(p *domain.Property, fallbackID uint) string {
	if p != nil && p.Title != "" {
		return p.Title
	}
	return fmt.Sprintf("#%d", fallbackID)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
