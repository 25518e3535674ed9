package routes

import (
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/handlers"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// listingMaxAge is how long anonymous listing responses may be cached
const listingMaxAge = 30 * time.Second

// SessionStore is everything the routes need from the session service
type SessionStore interface {
	middleware.SessionResolver
	middleware.SessionRevoker
	handlers.SessionManager
}

// Setup configures all routes for the application
func Setup(app *fiber.App, sessions SessionStore, client *api.Client, cfg *config.Config) {
	// Initialize services
	dashboardService := services.NewDashboardService(client)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(client, cfg)
	authHandler := handlers.NewAuthHandler(sessions, cfg)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	propertyHandler := handlers.NewPropertyHandler(client, cfg)
	contractHandler := handlers.NewContractHandler(client)
	visitHandler := handlers.NewVisitHandler(client)
	profileHandler := handlers.NewProfileHandler(client, sessions, cfg)
	people := map[api.PeopleKind]*handlers.PeopleHandler{
		api.KindAgents:  handlers.NewPeopleHandler(client, cfg, api.KindAgents),
		api.KindOwners:  handlers.NewPeopleHandler(client, cfg, api.KindOwners),
		api.KindClients: handlers.NewPeopleHandler(client, cfg, api.KindClients),
	}

	// Every request resolves its session; API 401s end it
	app.Use(middleware.SessionLoader(sessions, cfg))
	app.Use(middleware.UnauthorizedInterceptor(sessions, cfg))

	// Health check & docs
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Public pages
	app.Get("/", middleware.PublicCache(listingMaxAge), propertyHandler.Listing)
	app.Get("/properties", middleware.PublicCache(listingMaxAge), propertyHandler.Listing)
	app.Get(domain.LoginPath, middleware.GuestOnly(), authHandler.LoginPage)
	app.Post(domain.LoginPath, middleware.GuestOnly(), middleware.LoginRateLimiter(), authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	// JSON API used by the page scripts
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, propertyHandler, visitHandler)

	// Role areas
	setupAdminRoutes(app.Group("/admin", middleware.AdminOnly(), middleware.NoCacheHeaders()),
		dashboardHandler, contractHandler, visitHandler, people)
	setupOwnerRoutes(app.Group("/owner", middleware.RequireRole(domain.RoleOwner), middleware.NoCacheHeaders()),
		dashboardHandler, propertyHandler, contractHandler, visitHandler)
	setupClientRoutes(app.Group("/client", middleware.RequireRole(domain.RoleClient), middleware.NoCacheHeaders()),
		dashboardHandler, propertyHandler, contractHandler, visitHandler)
	setupAgentRoutes(app.Group("/agent", middleware.RequireRole(domain.RoleAgent), middleware.NoCacheHeaders()),
		dashboardHandler, visitHandler)

	// Shared between roles
	app.Post("/visits/:id/status", middleware.RequireRole(domain.RoleAdmin, domain.RoleAgent), visitHandler.SetStatus)
	app.Get("/contracts/:id/pdf", middleware.Authenticated(), contractHandler.PDF)
	profile := app.Group("/profile", middleware.Authenticated(), middleware.NoCacheHeaders())
	profile.Get("/", profileHandler.Show)
	profile.Post("/", profileHandler.Update)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	propertyHandler *handlers.PropertyHandler,
	visitHandler *handlers.VisitHandler,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Session routes
	router.Get("/session", authHandler.Session)
	router.Post("/session", middleware.LoginRateLimiter(), authHandler.CreateSession)
	router.Delete("/session", authHandler.DeleteSession)

	// Public listing
	router.Get("/properties", middleware.PublicCache(listingMaxAge), propertyHandler.ListingJSON)

	router.Post("/visits/:id/status", middleware.RequireRole(domain.RoleAdmin, domain.RoleAgent), visitHandler.SetStatus)
}

// setupAdminRoutes configures the admin area
func setupAdminRoutes(
	router fiber.Router,
	dashboardHandler *handlers.DashboardHandler,
	contractHandler *handlers.ContractHandler,
	visitHandler *handlers.VisitHandler,
	people map[api.PeopleKind]*handlers.PeopleHandler,
) {
	router.Get("/dashboard", dashboardHandler.Admin)

	for kind, h := range people {
		group := router.Group("/" + string(kind))
		group.Get("/", h.Index)
		group.Get("/new", h.New)
		group.Post("/", h.Create)
		group.Get("/:id/edit", h.Edit)
		group.Post("/:id", h.Update)
		group.Post("/:id/delete", h.Delete)
	}

	router.Get("/contracts", contractHandler.AdminIndex)
	router.Get("/visits", visitHandler.Index)
}

// setupOwnerRoutes configures the owner area
func setupOwnerRoutes(
	router fiber.Router,
	dashboardHandler *handlers.DashboardHandler,
	propertyHandler *handlers.PropertyHandler,
	contractHandler *handlers.ContractHandler,
	visitHandler *handlers.VisitHandler,
) {
	router.Get("/dashboard", dashboardHandler.Owner)

	properties := router.Group("/properties")
	properties.Get("/", propertyHandler.Index)
	properties.Get("/new", propertyHandler.New)
	properties.Post("/", propertyHandler.Create)
	properties.Get("/:id/edit", propertyHandler.Edit)
	properties.Post("/:id", propertyHandler.Update)
	properties.Post("/:id/delete", propertyHandler.Delete)

	router.Get("/contracts", contractHandler.OwnerIndex)
	router.Post("/contracts/:id/approve", contractHandler.Approve)
	router.Post("/contracts/:id/reject", contractHandler.Reject)

	router.Get("/visits", visitHandler.Index)
}

// setupClientRoutes configures the client area
func setupClientRoutes(
	router fiber.Router,
	dashboardHandler *handlers.DashboardHandler,
	propertyHandler *handlers.PropertyHandler,
	contractHandler *handlers.ContractHandler,
	visitHandler *handlers.VisitHandler,
) {
	router.Get("/dashboard", dashboardHandler.Client)

	router.Get("/properties", propertyHandler.ClientIndex)
	router.Get("/properties/:id", propertyHandler.ClientShow)

	router.Get("/contracts", contractHandler.ClientIndex)
	router.Post("/contracts", contractHandler.Request)

	router.Get("/visits", visitHandler.Index)
	router.Post("/visits", visitHandler.Book)
}

// setupAgentRoutes configures the agent area
func setupAgentRoutes(
	router fiber.Router,
	dashboardHandler *handlers.DashboardHandler,
	visitHandler *handlers.VisitHandler,
) {
	router.Get("/dashboard", dashboardHandler.Agent)
	router.Get("/visits", visitHandler.Index)
}
