package views

import (
	"strings"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
)

// Page is the binding every template receives. Content holds the page specific model.
type Page struct {
	Title   string
	User    *domain.User
	Nav     []NavLink
	Flash   Flash
	Content any
}

// Flash is a one-shot message shown above the page content
type Flash struct {
	Message string
	Error   string
}

// Empty reports whether there is nothing to show
func (f Flash) Empty() bool {
	return f.Message == "" && f.Error == ""
}

// NavLink is one sidebar entry
type NavLink struct {
	Label  string
	URL    string
	Active bool
}

var navigation = map[domain.Role][]NavLink{
	domain.RoleAdmin: {
		{Label: "Dashboard", URL: "/admin/dashboard"},
		{Label: "Agents", URL: "/admin/agents"},
		{Label: "Owners", URL: "/admin/owners"},
		{Label: "Clients", URL: "/admin/clients"},
		{Label: "Contracts", URL: "/admin/contracts"},
		{Label: "Visits", URL: "/admin/visits"},
	},
	domain.RoleOwner: {
		{Label: "Dashboard", URL: "/owner/dashboard"},
		{Label: "My properties", URL: "/owner/properties"},
		{Label: "Contracts", URL: "/owner/contracts"},
		{Label: "Visits", URL: "/owner/visits"},
	},
	domain.RoleClient: {
		{Label: "Dashboard", URL: "/client/dashboard"},
		{Label: "Properties", URL: "/client/properties"},
		{Label: "My contracts", URL: "/client/contracts"},
		{Label: "My visits", URL: "/client/visits"},
	},
	domain.RoleAgent: {
		{Label: "Dashboard", URL: "/agent/dashboard"},
		{Label: "Visits", URL: "/agent/visits"},
	},
}

// Navigation returns the sidebar of a role with the entry matching path marked active
func Navigation(role domain.Role, path string) []NavLink {
	links := navigation[role]
	if len(links) == 0 {
		return nil
	}
	out := make([]NavLink, 0, len(links)+1)
	for _, l := range links {
		l.Active = path == l.URL || strings.HasPrefix(path, l.URL+"/")
		out = append(out, l)
	}
	out = append(out, NavLink{Label: "Profile", URL: "/profile", Active: path == "/profile"})
	return out
}

// NewPage builds a page for user, which may be nil on public pages
func NewPage(title string, user *domain.User, path string, content any) Page {
	p := Page{Title: title, User: user, Content: content}
	if user != nil {
		p.Nav = Navigation(user.Role, path)
	}
	return p
}
