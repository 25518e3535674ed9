package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
)

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is what the API returns on a successful /login
type LoginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// UnmarshalJSON also accepts access_token, which some API versions send instead of token
func (r *LoginResponse) UnmarshalJSON(b []byte) error {
	var body struct {
		User        *domain.User `json:"user"`
		Token       string       `json:"token"`
		AccessToken string       `json:"access_token"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return err
	}
	r.User = body.User
	r.Token = body.Token
	if r.Token == "" {
		r.Token = body.AccessToken
	}
	return nil
}

// AuthClient covers /login, /logout and /me
type AuthClient struct {
	client *Client
}

// Login exchanges credentials for a user and a token
func (a *AuthClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := a.client.Do(ctx, http.MethodPost, "/login", nil, Credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the bound token on the API side
func (a *AuthClient) Logout(ctx context.Context) error {
	return a.client.Do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

// Me returns the user the bound token belongs to. The API answers with either the
// user object or {"user": {...}}.
func (a *AuthClient) Me(ctx context.Context) (*domain.User, error) {
	var raw json.RawMessage
	if err := a.client.Do(ctx, http.MethodGet, "/me", nil, nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthGateway exposes the auth endpoints with the token passed per call, for
// callers that manage many sessions with one client.
type AuthGateway struct {
	client *Client
}

// NewAuthGateway wraps c
func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{client: c}
}

// Login returns the user and token for the credentials
func (g *AuthGateway) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	resp, err := g.client.For("").Auth.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

// Logout invalidates token on the API side
func (g *AuthGateway) Logout(ctx context.Context, token string) error {
	return g.client.For(token).Auth.Logout(ctx)
}

// Me returns the user owning token
func (g *AuthGateway) Me(ctx context.Context, token string) (*domain.User, error) {
	return g.client.For(token).Auth.Me(ctx)
}
