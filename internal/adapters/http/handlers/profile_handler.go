package handlers

import (
	"errors"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const profilePath = "/profile"

// ProfileHandler lets any signed-in user edit their own profile
type ProfileHandler struct {
	api      *api.Client
	sessions SessionManager
	cfg      *config.Config
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(client *api.Client, sessions SessionManager, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{api: client, sessions: sessions, cfg: cfg}
}

func profileForm(f forms.ProfileForm, errs forms.FieldErrors) views.Form {
	return views.Form{
		Title:     "My profile",
		Action:    profilePath,
		Submit:    "Save profile",
		Multipart: true,
		Errors:    errs,
		Fields: []views.Field{
			views.Input("first_name", "First name", "text", f.FirstName, true),
			views.Input("last_name", "Last name", "text", f.LastName, true),
			views.Input("email", "Email", "email", f.Email, true),
			views.Input("phone", "Phone", "tel", f.Phone, false),
			views.Input("address", "Address", "text", f.Address, false),
			{Name: "image", Label: "Photo", Type: "file", Accept: "image/*"},
		},
	}
}

// Show renders the profile form with the API copy of the user
func (h *ProfileHandler) Show(c *fiber.Ctx) error {
	user, err := servicesFor(c, h.api).Users.Profile(c.UserContext())
	if err != nil {
		return failed(c, err, "/", "Unable to load your profile")
	}
	return render(c, fiber.StatusOK, views.PageForm, "My profile", profileForm(forms.ProfileFromUser(*user), nil))
}

// Update saves the profile and keeps the session copy of the user in sync
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var f forms.ProfileForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	image, fileErrs := forms.File(c, "image", h.cfg.Upload.MaxBytes)
	errs := f.Check()
	if fileErrs != nil {
		if errs == nil {
			errs = forms.FieldErrors{}
		}
		errs.Merge(fileErrs)
	}
	if errs.Any() {
		return render(c, fiber.StatusUnprocessableEntity, views.PageForm, "My profile", profileForm(f, errs))
	}

	user, err := servicesFor(c, h.api).Users.UpdateProfile(c.UserContext(), f.Payload(image))
	if err != nil {
		if apiErrs := apiFieldErrors(err); apiErrs != nil {
			return render(c, fiber.StatusUnprocessableEntity, views.PageForm, "My profile", profileForm(f, apiErrs))
		}
		return failed(c, err, profilePath, "Unable to save your profile")
	}

	// An answer without a user record leaves the stored session as it was
	if user == nil || user.ID == 0 {
		return done(c, profilePath, "Profile updated", user)
	}
	if err := h.sessions.UpdateUser(c.UserContext(), middleware.SessionKey(c), *user); err != nil {
		if errors.Is(err, services.ErrRoleMismatch) {
			middleware.ClearSessionCookie(c, h.cfg)
			return c.Redirect(middleware.LoginURL(middleware.MsgRoleChanged), fiber.StatusSeeOther)
		}
		log.Error().Err(err).Uint("user_id", user.ID).Msg("❌ Failed to sync the session user")
	}
	return done(c, profilePath, "Profile updated", user)
}
