package handlers

import (
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/core/services"
	"github.com/914h/BabImmob-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler renders the role dashboards
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) show(c *fiber.Ctx, data any, content views.Dashboard) error {
	if middleware.WantsJSON(c) {
		return response.Success(c, "", data)
	}
	return render(c, fiber.StatusOK, views.PageDashboard, content.Heading, content)
}

// sessionToken is the API token of the signed-in user
func sessionToken(c *fiber.Ctx) string {
	return middleware.CurrentSession(c).Token
}

// Admin renders the admin dashboard
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	data, err := h.dashboardService.Admin(c.UserContext(), sessionToken(c))
	if err != nil {
		return failed(c, err, profilePath, "Unable to load the dashboard")
	}
	return h.show(c, data, views.Dashboard{
		Heading: "Administration",
		Stats: []views.Stat{
			{Label: "Agents", Value: data.TotalAgents, URL: "/admin/agents"},
			{Label: "Owners", Value: data.TotalOwners, URL: "/admin/owners"},
			{Label: "Clients", Value: data.TotalClients, URL: "/admin/clients"},
			{Label: "Contracts", Value: data.TotalContracts, URL: "/admin/contracts"},
			{Label: "Visits", Value: data.TotalVisits, URL: "/admin/visits"},
			{Label: "Pending visits", Value: data.PendingVisits, URL: "/admin/visits"},
		},
		Tables: []views.Table{contractTable("Latest contracts", data.RecentContracts, domain.RoleAdmin)},
	})
}

// Owner renders the owner dashboard
func (h *DashboardHandler) Owner(c *fiber.Ctx) error {
	data, err := h.dashboardService.Owner(c.UserContext(), sessionToken(c))
	if err != nil {
		return failed(c, err, profilePath, "Unable to load the dashboard")
	}
	return h.show(c, data, views.Dashboard{
		Heading: "My activity",
		Stats: []views.Stat{
			{Label: "Properties", Value: data.TotalProperties, URL: ownerProperties},
			{Label: "Available", Value: data.AvailableProperties, URL: ownerProperties},
			{Label: "Contracts", Value: data.TotalContracts, URL: "/owner/contracts"},
			{Label: "Pending requests", Value: data.PendingContracts, URL: "/owner/contracts"},
			{Label: "Upcoming visits", Value: data.UpcomingVisits, URL: "/owner/visits"},
		},
		Tables: []views.Table{contractTable("Latest contracts", data.RecentContracts, domain.RoleOwner)},
	})
}

// Client renders the client dashboard
func (h *DashboardHandler) Client(c *fiber.Ctx) error {
	data, err := h.dashboardService.Client(c.UserContext(), sessionToken(c))
	if err != nil {
		return failed(c, err, profilePath, "Unable to load the dashboard")
	}
	return h.show(c, data, views.Dashboard{
		Heading: "My space",
		Stats: []views.Stat{
			{Label: "Contracts", Value: data.TotalContracts, URL: "/client/contracts"},
			{Label: "Visits", Value: data.TotalVisits, URL: "/client/visits"},
		},
		Tables: []views.Table{
			contractTable("My contracts", data.Contracts, domain.RoleClient),
			visitTable("My visits", data.Visits, domain.RoleClient),
		},
		Suggestions: data.Suggestions,
		DetailBase:  "/client/properties",
	})
}

// Agent renders the agent dashboard
func (h *DashboardHandler) Agent(c *fiber.Ctx) error {
	data, err := h.dashboardService.Agent(c.UserContext(), sessionToken(c))
	if err != nil {
		return failed(c, err, profilePath, "Unable to load the dashboard")
	}
	return h.show(c, data, views.Dashboard{
		Heading: "My visits",
		Stats: []views.Stat{
			{Label: "Pending", Value: data.Pending},
			{Label: "Confirmed", Value: data.Confirmed},
			{Label: "Cancelled", Value: data.Cancelled},
		},
		Tables: []views.Table{visitTable("Assigned visits", data.Visits, domain.RoleAgent)},
	})
}
