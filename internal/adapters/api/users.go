package api

import (
	"context"
	"net/http"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
)

// PeopleKind names one of the admin-managed user collections
type PeopleKind string

const (
	KindAgents  PeopleKind = "agents"
	KindOwners  PeopleKind = "owners"
	KindClients PeopleKind = "clients"
)

// Valid reports whether k is a known collection
func (k PeopleKind) Valid() bool {
	return k == KindAgents || k == KindOwners || k == KindClients
}

// Role is the role of the users held by the collection
func (k PeopleKind) Role() domain.Role {
	switch k {
	case KindAgents:
		return domain.RoleAgent
	case KindOwners:
		return domain.RoleOwner
	}
	return domain.RoleClient
}

// UsersClient covers the admin people collections and the profile endpoint
type UsersClient struct {
	client *Client
}

// People returns the CRUD resource for kind under /admin
func (u *UsersClient) People(kind PeopleKind) *Resource[domain.User] {
	return NewResource[domain.User](u.client, "/admin/"+string(kind))
}

// Agents is /admin/agents
func (u *UsersClient) Agents() *Resource[domain.User] { return u.People(KindAgents) }

// Owners is /admin/owners
func (u *UsersClient) Owners() *Resource[domain.User] { return u.People(KindOwners) }

// Clients is /admin/clients
func (u *UsersClient) Clients() *Resource[domain.User] { return u.People(KindClients) }

// Profile returns the signed-in user's profile
func (u *UsersClient) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := u.client.Do(ctx, http.MethodGet, "/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves the signed-in user's profile and returns the stored copy
func (u *UsersClient) UpdateProfile(ctx context.Context, body Payload) (*domain.User, error) {
	var user domain.User
	if err := u.client.Do(ctx, http.MethodPut, "/profile", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
