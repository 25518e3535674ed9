package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/pkg/pagination"
	"github.com/914h/BabImmob-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const ownerProperties = "/owner/properties"

// PropertyHandler handles the owner's property CRUD, the client catalogue and the
// public listing
type PropertyHandler struct {
	api *api.Client
	cfg *config.Config
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(client *api.Client, cfg *config.Config) *PropertyHandler {
	return &PropertyHandler{api: client, cfg: cfg}
}

// ============================================================
// Owner CRUD
// ============================================================

func propertyTable(properties []domain.Property) views.Table {
	t := views.Table{
		Title:        "My properties",
		Columns:      []string{"Title", "Type", "City", "Surface", "Rooms", "Price", "Status"},
		StatusColumn: "Status",
		CreateURL:    ownerProperties + "/new",
		CreateLabel:  "Add a property",
		Empty:        "You have not listed any property yet.",
		Rows:         make([]views.Row, 0, len(properties)),
	}
	for _, p := range properties {
		t.Rows = append(t.Rows, views.Row{
			ID: p.ID,
			Cells: []string{
				p.Title,
				views.Label(string(p.Type)),
				p.City,
				p.Surface.String() + " m²",
				strconv.Itoa(p.Rooms),
				views.Money(p.Price) + " MAD",
				string(p.Status),
			},
			Actions: []views.Action{
				views.Edit(ownerProperties, p.ID),
				views.Delete(ownerProperties, p.ID, "property"),
			},
		})
	}
	return t
}

func (h *PropertyHandler) propertyForm(action string, creating bool, f forms.PropertyForm, errs forms.FieldErrors) views.Form {
	title, submit := "Edit property", "Save changes"
	if creating {
		title, submit = "New property", "Create property"
	}
	surface := views.Input("surface", "Surface (m²)", "text", f.Surface, true)
	surface.Placeholder = "84,5"
	price := views.Input("price", "Price (MAD)", "text", f.Price, true)
	price.Placeholder = "1 250 000"

	return views.Form{
		Title:     title,
		Action:    action,
		Submit:    submit,
		Cancel:    ownerProperties,
		Multipart: true,
		Errors:    errs,
		Fields: []views.Field{
			views.Select("type", "Type", f.Type, views.Options(domain.PropertyTypes)),
			views.Input("title", "Title", "text", f.Title, true),
			{Name: "description", Label: "Description", Type: "textarea", Value: f.Description},
			views.Input("address", "Address", "text", f.Address, true),
			views.Input("city", "City", "text", f.City, true),
			surface,
			views.Input("rooms", "Rooms", "number", f.Rooms, true),
			price,
			views.Select("status", "Status", f.Status, views.Options(domain.PropertyStatuses)),
			{
				Name:     "images",
				Label:    "Images",
				Type:     "file",
				Multiple: true,
				Accept:   "image/*",
				Help:     fmt.Sprintf("Up to %d images, %d MB each", forms.MaxImages, h.cfg.Upload.MaxBytes>>20),
			},
		},
	}
}

// Index lists the owner's properties
func (h *PropertyHandler) Index(c *fiber.Ctx) error {
	properties, err := servicesFor(c, h.api).Properties.Owner().All(c.UserContext(), nil)
	if err != nil {
		return failed(c, err, "/owner/dashboard", "Unable to load your properties")
	}
	return render(c, fiber.StatusOK, views.PageTable, "My properties", propertyTable(properties))
}

// New shows the creation form
func (h *PropertyHandler) New(c *fiber.Ctx) error {
	f := forms.PropertyForm{Status: string(domain.PropertyAvailable)}
	return render(c, fiber.StatusOK, views.PageForm, "New property", h.propertyForm(ownerProperties, true, f, nil))
}

// Create handles the creation form
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	return h.save(c, 0)
}

// Edit shows the edit form prefilled from the API
func (h *PropertyHandler) Edit(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := servicesFor(c, h.api).Properties.Owner().Get(c.UserContext(), id)
	if err != nil {
		return failed(c, err, ownerProperties, "Unable to load the property")
	}
	action := fmt.Sprintf("%s/%d", ownerProperties, id)
	return render(c, fiber.StatusOK, views.PageForm, "Edit property", h.propertyForm(action, false, forms.PropertyFromDomain(*p), nil))
}

// Update handles the edit form
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.save(c, id)
}

// save creates (id == 0) or updates a property. Numbers are coerced before the
// payload reaches the API client.
func (h *PropertyHandler) save(c *fiber.Ctx, id uint) error {
	creating := id == 0
	action := ownerProperties
	if !creating {
		action = fmt.Sprintf("%s/%d", ownerProperties, id)
	}

	var f forms.PropertyForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	images, fileErrs := forms.Files(c, "images", h.cfg.Upload.MaxBytes)
	errs := f.Check()
	if fileErrs != nil {
		if errs == nil {
			errs = forms.FieldErrors{}
		}
		errs.Merge(fileErrs)
	}
	if errs.Any() {
		return render(c, fiber.StatusUnprocessableEntity, views.PageForm, "Property", h.propertyForm(action, creating, f, errs))
	}

	payload, err := f.Payload(images)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid property data")
	}

	resource := servicesFor(c, h.api).Properties.Owner()
	message := "Property created"
	if creating {
		_, err = resource.Create(c.UserContext(), payload)
	} else {
		_, err = resource.Update(c.UserContext(), id, payload)
		message = "Property updated"
	}
	if err != nil {
		if apiErrs := apiFieldErrors(err); apiErrs != nil {
			return render(c, fiber.StatusUnprocessableEntity, views.PageForm, "Property", h.propertyForm(action, creating, f, apiErrs))
		}
		return failed(c, err, ownerProperties, "Unable to save the property")
	}

	log.Info().Uint("property_id", id).Bool("created", creating).Int("images", len(images)).Msg("🏠 Property saved")
	return done(c, ownerProperties, message, nil)
}

// Delete removes a property
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := servicesFor(c, h.api).Properties.Owner().Delete(c.UserContext(), id); err != nil {
		return failed(c, err, ownerProperties, "Unable to delete the property")
	}
	return done(c, ownerProperties, "Property deleted", fiber.Map{"id": id})
}

// ============================================================
// Client catalogue
// ============================================================

// ClientIndex lists the properties a client can ask about
func (h *PropertyHandler) ClientIndex(c *fiber.Ctx) error {
	properties, err := servicesFor(c, h.api).Properties.Client().All(c.UserContext(), nil)
	if err != nil {
		return failed(c, err, "/client/dashboard", "Unable to load properties")
	}

	t := views.Table{
		Title:        "Properties",
		Columns:      []string{"Title", "Type", "City", "Rooms", "Price", "Status"},
		StatusColumn: "Status",
		Empty:        "No properties available right now.",
		Rows:         make([]views.Row, 0, len(properties)),
	}
	for _, p := range properties {
		t.Rows = append(t.Rows, views.Row{
			ID:      p.ID,
			Cells:   []string{p.Title, views.Label(string(p.Type)), p.City, strconv.Itoa(p.Rooms), views.Money(p.Price) + " MAD", string(p.Status)},
			Actions: []views.Action{{Kind: views.ActionView, Label: "View", URL: fmt.Sprintf("/client/properties/%d", p.ID)}},
		})
	}
	return render(c, fiber.StatusOK, views.PageTable, "Properties", t)
}

// ClientShow shows a property with the contract request and visit booking forms
func (h *PropertyHandler) ClientShow(c *fiber.Ctx) error {
	return renderPropertyDetail(c, h.api, c.Params("id"), nil, nil, nil, nil)
}

// renderPropertyDetail renders the client property page; failed submissions come
// back here with their values and errors (422)
func renderPropertyDetail(c *fiber.Ctx, client *api.Client, rawID string, cf *forms.ContractForm, cerrs forms.FieldErrors, vf *forms.VisitForm, verrs forms.FieldErrors) error {
	id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid property")
	}
	p, err := servicesFor(c, client).Properties.Client().Get(c.UserContext(), uint(id))
	if err != nil {
		return failed(c, err, "/client/properties", "Unable to load the property")
	}

	if cf == nil {
		cf = &forms.ContractForm{Type: string(domain.ContractRent)}
	}
	if vf == nil {
		vf = &forms.VisitForm{}
	}
	pid := strconv.FormatUint(id, 10)

	detail := views.PropertyDetail{
		Property: *p,
		Contract: views.Form{
			Title:  "Request a contract",
			Action: "/client/contracts",
			Submit: "Send request",
			Errors: cerrs,
			Fields: []views.Field{
				{Name: "property_id", Type: "hidden", Value: pid},
				views.Select("type", "Type", cf.Type, views.Options([]domain.ContractType{domain.ContractRent, domain.ContractSale})),
				views.Input("start_date", "Start date", "date", cf.StartDate, true),
				views.Input("end_date", "End date (rentals)", "date", cf.EndDate, false),
				views.Input("amount", "Proposed amount (MAD)", "text", cf.Amount, false),
			},
		},
		Visit: views.Form{
			Title:  "Book a visit",
			Action: "/client/visits",
			Submit: "Book visit",
			Errors: verrs,
			Fields: []views.Field{
				{Name: "property_id", Type: "hidden", Value: pid},
				views.Input("date", "Date", "date", vf.Date, true),
				views.Input("time", "Time", "time", vf.Time, true),
				{Name: "notes", Label: "Notes", Type: "textarea", Value: vf.Notes},
			},
		},
	}

	status := fiber.StatusOK
	if cerrs.Any() || verrs.Any() {
		status = fiber.StatusUnprocessableEntity
	}
	return render(c, status, views.PageProperty, p.Title, detail)
}

// ============================================================
// Public listing
// ============================================================

// listingQuery reads the listing parameters and the known filters
func (h *PropertyHandler) listingQuery(c *fiber.Ctx) (*pagination.Params, url.Values) {
	params := pagination.GetParams(c, h.cfg.Listing.PerPage)
	filters := url.Values{}
	if t := domain.PropertyType(c.Query("type")); containsType(t) {
		filters.Set("type", string(t))
	}
	if s := domain.PropertyStatus(c.Query("status")); containsStatus(s) {
		filters.Set("status", string(s))
	}
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		filters.Set("city", city)
	}
	return params, filters
}

// Listing renders the public catalogue. An API failure shows an empty listing with
// an error flash.
func (h *PropertyHandler) Listing(c *fiber.Ctx) error {
	params, filters := h.listingQuery(c)

	l := views.Listing{
		Params:     *params,
		Filters:    filters,
		Types:      views.Options(domain.PropertyTypes),
		Statuses:   views.Options(domain.PropertyStatuses),
		Sorts:      views.Options(pagination.SortFields),
		DebounceMS: int(h.cfg.Listing.SearchDebounce.Milliseconds()),
		Meta:       pagination.GetMeta(params, 0),
	}
	if u := middleware.CurrentUser(c); u != nil && u.Role == domain.RoleClient {
		l.DetailBase = "/client/properties"
	}

	page, err := servicesFor(c, h.api).Properties.Listing(c.UserContext(), params, filters)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to load the listing")
		return renderFlash(c, fiber.StatusOK, views.PageListing, "Properties", l, views.Flash{Error: "Listings are unavailable right now"})
	}
	l.Properties = page.Data
	l.Meta = page.Meta
	return render(c, fiber.StatusOK, views.PageListing, "Properties", l)
}

// ListingJSON returns one page of the public catalogue
// @Summary Property listing
// @Description Server-driven pagination over the public catalogue
// @Tags Properties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(12)
// @Param sort_by query string false "created_at, price, surface, rooms or title"
// @Param sort_order query string false "asc or desc"
// @Param search query string false "Free text search"
// @Param type query string false "Property type"
// @Param city query string false "City"
// @Param status query string false "Property status"
// @Success 200 {object} response.Response{data=[]domain.Property,meta=pagination.Meta}
// @Failure 502 {object} response.Response
// @Router /api/v1/properties [get]
func (h *PropertyHandler) ListingJSON(c *fiber.Ctx) error {
	params, filters := h.listingQuery(c)
	page, err := servicesFor(c, h.api).Properties.Listing(c.UserContext(), params, filters)
	if err != nil {
		return failed(c, err, "/", "Listings are unavailable right now")
	}
	return response.Paginated(c, page.Data, page.Meta)
}

func containsType(t domain.PropertyType) bool {
	for _, v := range domain.PropertyTypes {
		if v == t {
			return true
		}
	}
	return false
}

func containsStatus(s domain.PropertyStatus) bool {
	for _, v := range domain.PropertyStatuses {
		if v == s {
			return true
		}
	}
	return false
}
