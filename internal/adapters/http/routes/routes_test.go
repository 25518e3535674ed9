package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/middleware"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "babimmob_session"

// fakeStore is an in-memory session store keyed by the raw cookie value
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*services.Session
	login    *services.LoginResult
	revoked  []string
}

func (f *fakeStore) Resolve(_ context.Context, key string) (*services.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[key]; ok {
		return s, nil
	}
	return nil, services.ErrNoSession
}

func (f *fakeStore) Revoke(_ context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, key)
	delete(f.sessions, key)
}

func (f *fakeStore) Login(_ context.Context, _, _ string) (*services.LoginResult, error) {
	return f.login, nil
}

func (f *fakeStore) Logout(_ context.Context, key string) error {
	f.Revoke(context.Background(), key)
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, key string, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[key]; ok {
		s.User = user
	}
	return nil
}

type apiCall struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

// fakeAPI answers "METHOD /path" with canned JSON and records every call
type fakeAPI struct {
	mu      sync.Mutex
	routes  map[string]cannedResponse
	calls   []apiCall
	baseURL string
}

type cannedResponse struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: map[string]cannedResponse{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, apiCall{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
		resp, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"not found"}`)
			return
		}
		w.WriteHeader(resp.status)
		_, _ = io.WriteString(w, resp.body)
	}))
	t.Cleanup(srv.Close)
	f.baseURL = srv.URL
	return f
}

func (f *fakeAPI) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = cannedResponse{status: status, body: body}
}

func (f *fakeAPI) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		API:     config.APIConfig{Timeout: 5 * time.Second},
		Session: config.SessionConfig{CookieName: cookieName, TTL: time.Hour},
		Cookie:  config.CookieConfig{SameSite: "lax"},
		Upload:  config.UploadConfig{MaxBytes: 2 << 20},
		Listing: config.ListingConfig{PerPage: 12, SearchDebounce: 350 * time.Millisecond},
	}
}

func session(id uint, role domain.Role) *services.Session {
	return &services.Session{
		ID:            id,
		User:          domain.User{ID: id, FirstName: "Sara", LastName: "Alami", Email: "sara@babimmob.ma", Role: role},
		Token:         "token-" + string(role),
		Authenticated: true,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
}

func newTestApp(t *testing.T) (*fiber.App, *fakeStore, *fakeAPI) {
	t.Helper()
	fake := newFakeAPI(t)
	store := &fakeStore{sessions: map[string]*services.Session{
		"k-admin": session(1, domain.RoleAdmin),
		"k-owner": session(2, domain.RoleOwner),
	}}
	cfg := testConfig()
	app := fiber.New(fiber.Config{Views: views.NewEngine(false), ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, store, api.New(fake.baseURL, cfg.API.Timeout), cfg)
	return app, store, fake
}

type request struct {
	method  string
	path    string
	cookie  string
	form    url.Values
	xhr     bool
	headers map[string]string
}

func do(t *testing.T, app *fiber.App, r request) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.form != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	}
	if r.cookie != "" {
		req.Header.Set("Cookie", cookieName+"="+r.cookie)
	}
	if r.xhr {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestOwnerLoginRedirectsToDashboard(t *testing.T) {
	app, store, _ := newTestApp(t)
	owner := session(2, domain.RoleOwner).User
	store.login = &services.LoginResult{Success: true, Data: &services.LoginData{
		Key:      "k-new",
		User:     &owner,
		Token:    "t",
		Redirect: "/owner/dashboard",
	}}

	resp, _ := do(t, app, request{method: http.MethodPost, path: "/login", form: url.Values{
		"email":    {"a@b.com"},
		"password": {"validpass"},
	}})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/owner/dashboard", resp.Header.Get("Location"))
	assert.Contains(t, resp.Header.Get("Set-Cookie"), cookieName+"=k-new")
	assert.Contains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "httponly")
}

func TestLegacyRoleLoginIsRejected(t *testing.T) {
	app, store, _ := newTestApp(t)
	store.login = &services.LoginResult{Success: false, Error: services.MsgInvalidRole}

	resp, body := do(t, app, request{method: http.MethodPost, path: "/login", form: url.Values{
		"email":    {"teacher@b.com"},
		"password": {"validpass"},
	}})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid user role")
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestLoginFormValidation(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := do(t, app, request{method: http.MethodPost, path: "/login", form: url.Values{"email": {"not-an-email"}}})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `class="error"`)
}

func TestGuardRedirectsBeforeAnyAPICall(t *testing.T) {
	app, _, fake := newTestApp(t)

	resp, body := do(t, app, request{method: http.MethodGet, path: "/owner/properties"})

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?error=Please+sign+in+to+continue", resp.Header.Get("Location"))
	assert.NotContains(t, body, "My properties")
	assert.Empty(t, fake.recorded())
}

func TestWrongRoleIsSentToLogin(t *testing.T) {
	app, _, fake := newTestApp(t)

	resp, _ := do(t, app, request{method: http.MethodGet, path: "/admin/clients", cookie: "k-owner"})

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/login?error=")
	assert.Empty(t, fake.recorded())
}

func TestEmptyPropertyListShowsEmptyState(t *testing.T) {
	app, _, fake := newTestApp(t)
	fake.on(http.MethodGet, "/owner/properties", http.StatusOK, `[]`)

	resp, body := do(t, app, request{method: http.MethodGet, path: "/owner/properties", cookie: "k-owner"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "You have not listed any property yet.")
	assert.Contains(t, body, `<tr class="empty">`)
	assert.NotContains(t, body, "data-id=")
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))

	calls := fake.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer token-owner", calls[0].Auth)
}

func TestScriptDeleteDoesNotRefetch(t *testing.T) {
	app, _, fake := newTestApp(t)
	fake.on(http.MethodDelete, "/admin/clients/7", http.StatusOK, `{"message":"Client deleted"}`)

	resp, body := do(t, app, request{method: http.MethodPost, path: "/admin/clients/7/delete", cookie: "k-admin", xhr: true})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "Client deleted", out.Message)
	assert.EqualValues(t, 7, out.Data["id"])

	calls := fake.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/admin/clients/7", calls[0].Path)
}

func TestPlainDeleteRedirectsToList(t *testing.T) {
	app, _, fake := newTestApp(t)
	fake.on(http.MethodDelete, "/admin/clients/7", http.StatusNoContent, ``)

	resp, _ := do(t, app, request{method: http.MethodPost, path: "/admin/clients/7/delete", cookie: "k-admin"})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/clients?message=Client+deleted", resp.Header.Get("Location"))
}

func TestPropertyCreateSendsNumbers(t *testing.T) {
	app, _, fake := newTestApp(t)
	fake.on(http.MethodPost, "/owner/properties", http.StatusCreated, `{"data":{"id":12,"title":"Riad"}}`)

	resp, _ := do(t, app, request{method: http.MethodPost, path: "/owner/properties", cookie: "k-owner", form: url.Values{
		"type":    {"house"},
		"title":   {"Riad Medina"},
		"address": {"12 Derb Lalla"},
		"city":    {"Marrakech"},
		"surface": {"120,5"},
		"rooms":   {" 4 "},
		"price":   {"1250000"},
		"status":  {"available"},
	}})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/owner/properties?message=Property+created", resp.Header.Get("Location"))

	calls := fake.recorded()
	require.Len(t, calls, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(calls[0].Body, &sent))
	assert.Equal(t, 120.5, sent["surface"])
	assert.Equal(t, float64(4), sent["rooms"])
	assert.Equal(t, float64(1250000), sent["price"])
	assert.Equal(t, "Marrakech", sent["city"])
}

func TestPropertyCreateValidationStaysOnForm(t *testing.T) {
	app, _, fake := newTestApp(t)

	resp, body := do(t, app, request{method: http.MethodPost, path: "/owner/properties", cookie: "k-owner", form: url.Values{
		"type":  {"castle"},
		"title": {"Riad Medina"},
	}})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `value="Riad Medina"`)
	assert.Empty(t, fake.recorded())
}

func TestAPIUnauthorizedEndsSession(t *testing.T) {
	app, store, fake := newTestApp(t)
	fake.on(http.MethodGet, "/owner/properties", http.StatusUnauthorized, `{"message":"Unauthenticated."}`)

	resp, _ := do(t, app, request{method: http.MethodGet, path: "/owner/properties", cookie: "k-owner"})

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, middleware.LoginURL(middleware.MsgSessionExpired), resp.Header.Get("Location"))
	assert.Contains(t, resp.Header.Get("Set-Cookie"), cookieName+"=;")
	assert.Equal(t, []string{"k-owner"}, store.revoked)
}

func TestSessionEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, _ := do(t, app, request{method: http.MethodGet, path: "/api/v1/session"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, app, request{method: http.MethodGet, path: "/api/v1/session", cookie: "k-owner"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"redirect":"/owner/dashboard"`)
	assert.NotContains(t, body, "token-owner")
}

func TestVisitStatusRejectsUnknownValue(t *testing.T) {
	app, _, fake := newTestApp(t)

	resp, body := do(t, app, request{method: http.MethodPost, path: "/visits/3/status", cookie: "k-admin", xhr: true,
		form: url.Values{"status": {"done"}}})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `"success":false`)
	assert.Empty(t, fake.recorded())
}

func TestLogoutClearsCookie(t *testing.T) {
	app, store, _ := newTestApp(t)

	resp, _ := do(t, app, request{method: http.MethodPost, path: "/logout", cookie: "k-owner"})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?message=You+have+been+signed+out", resp.Header.Get("Location"))
	assert.Contains(t, resp.Header.Get("Set-Cookie"), cookieName+"=;")
	assert.Equal(t, []string{"k-owner"}, store.revoked)
}

func TestAgentDashboardCountsVisits(t *testing.T) {
	app, store, fake := newTestApp(t)
	store.sessions["k-agent"] = session(5, domain.RoleAgent)
	fake.on(http.MethodGet, "/visits", http.StatusOK, `{"data":[
		{"id":1,"property_id":3,"client_id":4,"agent_id":5,"date":"2026-11-02","time":"10:00","status":"pending"},
		{"id":2,"property_id":3,"client_id":4,"agent_id":5,"date":"2026-11-03","time":"11:30","status":"confirmed"}
	]}`)

	resp, body := do(t, app, request{method: http.MethodGet, path: "/agent/dashboard", cookie: "k-agent"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Assigned visits")
	assert.Contains(t, body, `data-id="1"`)
	assert.Contains(t, body, `data-id="2"`)
	assert.Contains(t, body, `action="/visits/1/status"`)
}

func TestProfileUpdateWithoutUserKeepsSession(t *testing.T) {
	app, store, fake := newTestApp(t)
	fake.on(http.MethodPut, "/profile", http.StatusOK, `{"message":"ok"}`)
	before := store.sessions["k-owner"].User

	resp, _ := do(t, app, request{method: http.MethodPost, path: "/profile", cookie: "k-owner", form: url.Values{
		"first_name": {"Nadia"},
		"last_name":  {"Bennani"},
		"email":      {"nadia@babimmob.ma"},
	}})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile?message=Profile+updated", resp.Header.Get("Location"))
	assert.Equal(t, before, store.sessions["k-owner"].User)
}
