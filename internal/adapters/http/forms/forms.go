package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
)

// LoginForm is the sign-in form
type LoginForm struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Check validates the form
func (f *LoginForm) Check() FieldErrors {
	f.Email = strings.TrimSpace(f.Email)
	return Validate(f)
}

// PersonForm creates or edits an agent, owner or client
type PersonForm struct {
	FirstName string `form:"first_name" validate:"required,min=2,max=100"`
	LastName  string `form:"last_name" validate:"required,min=2,max=100"`
	Email     string `form:"email" validate:"required,email,max=255"`
	Phone     string `form:"phone" validate:"omitempty,max=20"`
	Address   string `form:"address" validate:"omitempty,max=255"`
	Password  string `form:"password" validate:"omitempty,min=8,max=255"`
}

// PersonFromUser prefills the edit form
func PersonFromUser(u domain.User) PersonForm {
	return PersonForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
	}
}

// Check validates the form. A password is only mandatory when creating.
func (f *PersonForm) Check(creating bool) FieldErrors {
	f.trim()
	errs := Validate(f)
	if creating && f.Password == "" {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs.Add("password", "The password field is required.")
	}
	return errs
}

func (f *PersonForm) trim() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
}

// Payload builds the API body; image is optional
func (f *PersonForm) Payload(image *api.File) api.Payload {
	p := api.Payload{
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"email":      f.Email,
		"phone":      f.Phone,
		"address":    f.Address,
	}
	if f.Password != "" {
		p["password"] = f.Password
	}
	if image != nil {
		p["image"] = *image
	}
	return p
}

// ProfileForm edits the signed-in user's own profile
type ProfileForm struct {
	FirstName string `form:"first_name" validate:"required,min=2,max=100"`
	LastName  string `form:"last_name" validate:"required,min=2,max=100"`
	Email     string `form:"email" validate:"required,email,max=255"`
	Phone     string `form:"phone" validate:"omitempty,max=20"`
	Address   string `form:"address" validate:"omitempty,max=255"`
}

// ProfileFromUser prefills the profile form
func ProfileFromUser(u domain.User) ProfileForm {
	return ProfileForm{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone, Address: u.Address}
}

// Check validates the form
func (f *ProfileForm) Check() FieldErrors {
	f.Email = strings.TrimSpace(f.Email)
	return Validate(f)
}

// Payload builds the API body; image is optional
func (f *ProfileForm) Payload(image *api.File) api.Payload {
	p := api.Payload{
		"first_name": strings.TrimSpace(f.FirstName),
		"last_name":  strings.TrimSpace(f.LastName),
		"email":      f.Email,
		"phone":      strings.TrimSpace(f.Phone),
		"address":    strings.TrimSpace(f.Address),
	}
	if image != nil {
		p["image"] = *image
	}
	return p
}

// PropertyForm creates or edits an owner's property. Numbers arrive as text.
type PropertyForm struct {
	Type        string `form:"type" validate:"required,oneof=apartment house villa land commercial"`
	Title       string `form:"title" validate:"required,min=3,max=255"`
	Description string `form:"description" validate:"omitempty,max=5000"`
	Address     string `form:"address" validate:"required,max=255"`
	City        string `form:"city" validate:"required,max=100"`
	Surface     string `form:"surface" validate:"required,amount"`
	Rooms       string `form:"rooms" validate:"required,number"`
	Price       string `form:"price" validate:"required,amount"`
	Status      string `form:"status" validate:"required,oneof=available rented sold pending"`
}

// PropertyFromDomain prefills the edit form
func PropertyFromDomain(p domain.Property) PropertyForm {
	return PropertyForm{
		Type:        string(p.Type),
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		Surface:     p.Surface.String(),
		Rooms:       strconv.Itoa(p.Rooms),
		Price:       p.Price.String(),
		Status:      string(p.Status),
	}
}

// Check validates the form
func (f *PropertyForm) Check() FieldErrors {
	f.Title = strings.TrimSpace(f.Title)
	f.City = strings.TrimSpace(f.City)
	f.Address = strings.TrimSpace(f.Address)
	f.Rooms = strings.TrimSpace(f.Rooms)
	return Validate(f)
}

// Payload builds the API body with surface and price as float64 and rooms as int
func (f *PropertyForm) Payload(images []api.File) (api.Payload, error) {
	surface, err := ParseDecimal(f.Surface)
	if err != nil {
		return nil, err
	}
	price, err := ParseDecimal(f.Price)
	if err != nil {
		return nil, err
	}
	rooms, err := ParseInt(f.Rooms)
	if err != nil {
		return nil, err
	}

	p := api.Payload{
		"type":        f.Type,
		"title":       f.Title,
		"description": strings.TrimSpace(f.Description),
		"address":     f.Address,
		"city":        f.City,
		"surface":     surface,
		"rooms":       rooms,
		"price":       price,
		"status":      f.Status,
	}
	if len(images) > 0 {
		p["images"] = images
	}
	return p, nil
}

// ContractForm is a client's contract request on a property
type ContractForm struct {
	PropertyID string `form:"property_id" validate:"required,number"`
	Type       string `form:"type" validate:"required,oneof=rent sale"`
	StartDate  string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Amount     string `form:"amount" validate:"omitempty,amount"`
}

// Check validates the form. Rentals need an end date after the start date.
func (f *ContractForm) Check() FieldErrors {
	errs := Validate(f)
	if errs == nil {
		errs = FieldErrors{}
	}
	if f.Type == string(domain.ContractRent) && f.EndDate == "" && !errs.Has("end_date") {
		errs.Add("end_date", "The end date field is required for a rental.")
	}
	if !errs.Has("start_date") && !errs.Has("end_date") && f.EndDate != "" {
		start, _ := time.Parse(time.DateOnly, f.StartDate)
		end, _ := time.Parse(time.DateOnly, f.EndDate)
		if !end.After(start) {
			errs.Add("end_date", "The end date must be after the start date.")
		}
	}
	if !errs.Any() {
		return nil
	}
	return errs
}

// Payload builds the API body
func (f *ContractForm) Payload() (api.Payload, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(f.PropertyID), 10, 64)
	if err != nil {
		return nil, err
	}
	p := api.Payload{
		"property_id": uint(id),
		"type":        f.Type,
		"start_date":  f.StartDate,
	}
	if f.EndDate != "" {
		p["end_date"] = f.EndDate
	}
	if f.Amount != "" {
		amount, err := ParseDecimal(f.Amount)
		if err != nil {
			return nil, err
		}
		p["amount"] = amount
	}
	return p, nil
}

// VisitForm books a visit of a property
type VisitForm struct {
	PropertyID string `form:"property_id" validate:"required,number"`
	Date       string `form:"date" validate:"required,datetime=2006-01-02"`
	Time       string `form:"time" validate:"required,datetime=15:04"`
	Notes      string `form:"notes" validate:"omitempty,max=1000"`
}

// Check validates the form; the visit cannot be booked before today
func (f *VisitForm) Check(now time.Time) FieldErrors {
	errs := Validate(f)
	if errs != nil {
		return errs
	}
	// YYYY-MM-DD compares in calendar order
	if f.Date < now.Format(time.DateOnly) {
		return FieldErrors{"date": {"The date must be today or later."}}
	}
	return nil
}

// Payload builds the API body
func (f *VisitForm) Payload() (api.Payload, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(f.PropertyID), 10, 64)
	if err != nil {
		return nil, err
	}
	p := api.Payload{
		"property_id": uint(id),
		"date":        f.Date,
		"time":        f.Time,
	}
	if notes := strings.TrimSpace(f.Notes); notes != "" {
		p["notes"] = notes
	}
	return p, nil
}

// VisitStatusForm changes the status of a visit
type VisitStatusForm struct {
	Status string `form:"status" json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// Check validates the form
func (f *VisitStatusForm) Check() FieldErrors {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	return Validate(f)
}
