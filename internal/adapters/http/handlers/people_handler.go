package handlers

import (
	"fmt"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// PeopleHandler is the admin CRUD of one people collection (agents, owners or clients)
type PeopleHandler struct {
	api      *api.Client
	cfg      *config.Config
	kind     api.PeopleKind
	title    string
	singular string
}

// NewPeopleHandler creates a handler for kind
func NewPeopleHandler(client *api.Client, cfg *config.Config, kind api.PeopleKind) *PeopleHandler {
	h := &PeopleHandler{api: client, cfg: cfg, kind: kind}
	switch kind {
	case api.KindAgents:
		h.title, h.singular = "Agents", "agent"
	case api.KindOwners:
		h.title, h.singular = "Owners", "owner"
	default:
		h.kind = api.KindClients
		h.title, h.singular = "Clients", "client"
	}
	return h
}

func (h *PeopleHandler) base() string {
	return "/admin/" + string(h.kind)
}

func (h *PeopleHandler) resource(c *fiber.Ctx) *api.Resource[domain.User] {
	return servicesFor(c, h.api).Users.People(h.kind)
}

func (h *PeopleHandler) table(people []domain.User) views.Table {
	t := views.Table{
		Title:       h.title,
		Columns:     []string{"Name", "Email", "Phone", "Address", "Since"},
		CreateURL:   h.base() + "/new",
		CreateLabel: "Add " + h.singular,
		Empty:       fmt.Sprintf("No %s yet.", h.kind),
		Rows:        make([]views.Row, 0, len(people)),
	}
	for _, u := range people {
		t.Rows = append(t.Rows, views.Row{
			ID:    u.ID,
			Cells: []string{orDash(u.FullName()), u.Email, orDash(u.Phone), orDash(u.Address), views.FormatDate(u.CreatedAt)},
			Actions: []views.Action{
				views.Edit(h.base(), u.ID),
				views.Delete(h.base(), u.ID, h.singular),
			},
		})
	}
	return t
}

func (h *PeopleHandler) form(action string, creating bool, f forms.PersonForm, errs forms.FieldErrors) views.Form {
	title := "Edit " + h.singular
	password := views.Input("password", "Password", "password", "", creating)
	if creating {
		title = "New " + h.singular
	} else {
		password.Help = "Leave empty to keep the current password"
	}
	return views.Form{
		Title:     title,
		Action:    action,
		Submit:    "Save",
		Cancel:    h.base(),
		Multipart: true,
		Errors:    errs,
		Fields: []views.Field{
			views.Input("first_name", "First name", "text", f.FirstName, true),
			views.Input("last_name", "Last name", "text", f.LastName, true),
			views.Input("email", "Email", "email", f.Email, true),
			views.Input("phone", "Phone", "tel", f.Phone, false),
			views.Input("address", "Address", "text", f.Address, false),
			password,
			{Name: "image", Label: "Photo", Type: "file", Accept: "image/*"},
		},
	}
}

// Index lists the collection
func (h *PeopleHandler) Index(c *fiber.Ctx) error {
	people, err := h.resource(c).All(c.UserContext(), nil)
	if err != nil {
		return failed(c, err, "/admin/dashboard", "Unable to load "+string(h.kind))
	}
	return render(c, fiber.StatusOK, views.PageTable, h.title, h.table(people))
}

// New shows the creation form
func (h *PeopleHandler) New(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, views.PageForm, h.title, h.form(h.base(), true, forms.PersonForm{}, nil))
}

// Create handles the creation form
func (h *PeopleHandler) Create(c *fiber.Ctx) error {
	return h.save(c, 0)
}

// Edit shows the edit form prefilled from the API
func (h *PeopleHandler) Edit(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	u, err := h.resource(c).Get(c.UserContext(), id)
	if err != nil {
		return failed(c, err, h.base(), "Unable to load the "+h.singular)
	}
	action := fmt.Sprintf("%s/%d", h.base(), id)
	return render(c, fiber.StatusOK, views.PageForm, h.title, h.form(action, false, forms.PersonFromUser(*u), nil))
}

// Update handles the edit form
func (h *PeopleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.save(c, id)
}

func (h *PeopleHandler) save(c *fiber.Ctx, id uint) error {
	creating := id == 0
	action := h.base()
	if !creating {
		action = fmt.Sprintf("%s/%d", h.base(), id)
	}

	var f forms.PersonForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	image, fileErrs := forms.File(c, "image", h.cfg.Upload.MaxBytes)
	errs := f.Check(creating)
	if fileErrs != nil {
		if errs == nil {
			errs = forms.FieldErrors{}
		}
		errs.Merge(fileErrs)
	}
	if errs.Any() {
		return render(c, fiber.StatusUnprocessableEntity, views.PageForm, h.title, h.form(action, creating, f, errs))
	}

	payload := f.Payload(image)
	var err error
	message := fmt.Sprintf("%s created", views.Label(h.singular))
	if creating {
		_, err = h.resource(c).Create(c.UserContext(), payload)
	} else {
		_, err = h.resource(c).Update(c.UserContext(), id, payload)
		message = fmt.Sprintf("%s updated", views.Label(h.singular))
	}
	if err != nil {
		if apiErrs := apiFieldErrors(err); apiErrs != nil {
			return render(c, fiber.StatusUnprocessableEntity, views.PageForm, h.title, h.form(action, creating, f, apiErrs))
		}
		return failed(c, err, h.base(), "Unable to save the "+h.singular)
	}

	log.Info().Str("kind", string(h.kind)).Uint("id", id).Bool("created", creating).Msg("👤 Person saved")
	return done(c, h.base(), message, nil)
}

// Delete removes a person. Script callers get JSON and drop the row themselves.
func (h *PeopleHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.resource(c).Delete(c.UserContext(), id); err != nil {
		return failed(c, err, h.base(), "Unable to delete the "+h.singular)
	}
	return done(c, h.base(), fmt.Sprintf("%s deleted", views.Label(h.singular)), fiber.Map{"id": id})
}
