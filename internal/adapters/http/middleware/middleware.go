package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	// Recover middleware - catches panics
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDev()}))

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Security Headers middleware (Helmet). Property images are served by the API host.
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	}))

	// Rate Limiter middleware - 100 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please wait a moment")
		},
	}))

	// Logger middleware
	if cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	} else {
		app.Use(logger.New(logger.Config{
			Format:     "${time} | ${locals:requestid} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	// CORS only matters for the JSON API; pages are same-origin
	if cfg.IsDev() {
		app.Use("/api", cors.New(cors.Config{
			AllowOrigins:     "*",
			AllowMethods:     "GET,POST,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,X-Requested-With",
			AllowCredentials: false,
		}))
	} else {
		app.Use("/api", cors.New(cors.Config{
			AllowOrigins:     cfg.GetAllowedOrigins(),
			AllowMethods:     "GET,POST,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,X-Requested-With",
			AllowCredentials: true,
		}))
	}

	app.Use(RequestTimeout(cfg.API.Timeout))
}

// RequestTimeout bounds every outbound API call made while serving the request.
// The context is cancelled when the handler returns so late results are dropped.
func RequestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// LoginRateLimiter creates a stricter rate limiter for the login endpoints
// 5 attempts per minute per IP
func LoginRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "-login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many login attempts, please wait a minute")
		},
	})
}

// WantsJSON reports whether the caller expects JSON instead of a page:
// the /api routes and fetch calls from the page scripts.
func WantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}
	if c.Get(fiber.HeaderXRequestedWith) == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// CustomErrorHandler handles errors globally: the JSON envelope for API callers
// and the error page for everyone else
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	var ae *api.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.As(err, &ae):
		code, message = upstreamStatus(ae)
	case errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusGatewayTimeout
		message = "The service took too long to answer"
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("❌ Request failed")
	}

	if WantsJSON(c) {
		return response.Error(c, code, message)
	}

	c.Status(code)
	renderErr := c.Render(views.PageError, views.NewPage("Error", CurrentUser(c), c.Path(), views.ErrorPage{
		Status:  code,
		Message: message,
	}), views.Layout)
	if renderErr != nil {
		log.Error().Err(renderErr).Msg("❌ Failed to render error page")
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(message)
	}
	return nil
}

// upstreamStatus maps an API failure that reached the top level to our status
func upstreamStatus(e *api.Error) (int, string) {
	switch e.Status {
	case fiber.StatusForbidden:
		return fiber.StatusForbidden, "You don't have permission to access this resource"
	case fiber.StatusNotFound:
		return fiber.StatusNotFound, "Resource not found"
	}
	if e.Status >= 400 && e.Status < 500 {
		return e.Status, api.Message(e, "The request was rejected")
	}
	return fiber.StatusBadGateway, "The BabImmob service is unavailable"
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
