package handlers

import (
	"fmt"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var visitStatuses = []domain.VisitStatus{domain.VisitPending, domain.VisitConfirmed, domain.VisitCancelled}

// VisitHandler handles the visit tables, bookings and status changes
type VisitHandler struct {
	api *api.Client
	now func() time.Time
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(client *api.Client) *VisitHandler {
	return &VisitHandler{api: client, now: time.Now}
}

// visitTable lists visits; admins and agents get a status selector on each row
func visitTable(title string, visits []domain.Visit, viewer domain.Role) views.Table {
	t := views.Table{
		Title:        title,
		Columns:      []string{"Property", "Client", "Agent", "Date", "Time", "Status"},
		StatusColumn: "Status",
		Empty:        "No visits scheduled.",
		Rows:         make([]views.Row, 0, len(visits)),
	}
	canChange := viewer == domain.RoleAdmin || viewer == domain.RoleAgent
	for _, v := range visits {
		row := views.Row{
			ID: v.ID,
			Cells: []string{
				propertyName(v.Property, v.PropertyID),
				userName(v.Client, v.ClientID),
				userName(v.Agent, v.AgentID),
				v.Date,
				v.Time,
				string(v.Status),
			},
		}
		if canChange {
			row.Actions = append(row.Actions, views.Action{
				Kind:    views.ActionStatus,
				Label:   "Status",
				URL:     fmt.Sprintf("/visits/%d/status", v.ID),
				Options: views.Options(visitStatuses),
				Value:   string(v.Status),
			})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Index lists the visits of the signed-in user, or all of them for admins
func (h *VisitHandler) Index(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	role := sess.Role()

	visits := servicesFor(c, h.api).Visits
	resource := visits.Mine()
	title := "Visits"
	switch role {
	case domain.RoleAdmin:
		resource = visits.Admin()
	case domain.RoleClient:
		title = "My visits"
	}

	list, err := resource.All(c.UserContext(), nil)
	if err != nil {
		return failed(c, err, domain.DashboardPath(role), "Unable to load visits")
	}
	return render(c, fiber.StatusOK, views.PageTable, title, visitTable(title, list, role))
}

// Book schedules a visit from the client property page
func (h *VisitHandler) Book(c *fiber.Ctx) error {
	var f forms.VisitForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := f.Check(h.now()); errs != nil {
		return renderPropertyDetail(c, h.api, f.PropertyID, nil, nil, &f, errs)
	}
	payload, err := f.Payload()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid visit request")
	}

	if _, err := servicesFor(c, h.api).Visits.Mine().Create(c.UserContext(), payload); err != nil {
		if errs := apiFieldErrors(err); errs != nil {
			return renderPropertyDetail(c, h.api, f.PropertyID, nil, nil, &f, errs)
		}
		return failed(c, err, "/client/properties/"+f.PropertyID, "Unable to book the visit")
	}
	return done(c, "/client/visits", "Visit booked", nil)
}

// SetStatus changes the status of a visit
// @Summary Change a visit status
// @Tags Visits
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Visit ID"
// @Param status formData string true "pending, confirmed or cancelled"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /visits/{id}/status [post]
func (h *VisitHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	back := "/agent/visits"
	if middleware.CurrentSession(c).Role() == domain.RoleAdmin {
		back = "/admin/visits"
	}

	var f forms.VisitStatusForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := f.Check(); errs != nil {
		if middleware.WantsJSON(c) {
			return response.ValidationFailed(c, errs.First("status"), errs)
		}
		return c.Redirect(withFlash(back, "error", errs.First("status")), fiber.StatusSeeOther)
	}

	visit, err := servicesFor(c, h.api).Visits.SetStatus(c.UserContext(), id, domain.VisitStatus(f.Status))
	if err != nil {
		return failed(c, err, back, "Unable to update the visit")
	}

	status := domain.VisitStatus(f.Status)
	if visit != nil && visit.Status != "" {
		status = visit.Status
	}
	return done(c, back, "Visit updated", fiber.Map{"id": id, "status": status})
}
