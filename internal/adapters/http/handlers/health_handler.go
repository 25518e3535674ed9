package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	api     *api.Client
	cfg     *config.Config
	checkDB func() error
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(client *api.Client, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		api:     client,
		cfg:     cfg,
		checkDB: config.HealthCheck,
	}
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check the session database and the BabImmob API
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "healthy"
	if err := h.checkDB(); err != nil {
		dbStatus = "unhealthy"
	}

	// Any HTTP answer means the API is reachable
	apiStatus := "healthy"
	_, err := h.api.DoRaw(c.UserContext(), http.MethodGet, "/properties", url.Values{"per_page": {"1"}}, nil)
	var apiErr *api.Error
	if err != nil && !errors.As(err, &apiErr) {
		apiStatus = "unreachable"
	}

	status, code := "ok", fiber.StatusOK
	if dbStatus != "healthy" || apiStatus != "healthy" {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"mode":   h.cfg.AppMode,
		"checks": fiber.Map{
			"api":      apiStatus,
			"database": dbStatus,
		},
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "BabImmob web API v1",
		"version": "1.0.0",
		"docs":    "/swagger/index.html",
	})
}
