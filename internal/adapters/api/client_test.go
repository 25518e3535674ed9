package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	Method      string
	Path        string
	Query       string
	Auth        string
	ContentType string
	Body        []byte
	Form        map[string][]string
	Files       map[string][]string
}

func newTestServer(t *testing.T, status int, body string) (*Client, *[]captured) {
	t.Helper()
	var calls []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
		}
		if strings.HasPrefix(c.ContentType, "multipart/form-data") {
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			c.Form = r.MultipartForm.Value
			c.Files = map[string][]string{}
			for k, fhs := range r.MultipartForm.File {
				for _, fh := range fhs {
					c.Files[k] = append(c.Files[k], fh.Filename)
				}
			}
		} else {
			c.Body, _ = io.ReadAll(r.Body)
		}
		calls = append(calls, c)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", 5*time.Second), &calls
}

func TestDoSendsJSONWithBearer(t *testing.T) {
	c, calls := newTestServer(t, 201, `{"data":{"id":4,"title":"Villa"}}`)

	var out domain.Property
	err := c.WithToken("t1").Do(context.Background(), http.MethodPost, "/owner/properties", nil, Payload{"title": "Villa", "price": 12.5, "note": nil}, &out)
	require.NoError(t, err)

	assert.Equal(t, uint(4), out.ID)
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/api/owner/properties", call.Path)
	assert.Equal(t, "Bearer t1", call.Auth)
	assert.Equal(t, "application/json", call.ContentType)
	assert.JSONEq(t, `{"title":"Villa","price":12.5}`, string(call.Body))
}

func TestDoWithoutTokenSendsNoAuthorization(t *testing.T) {
	c, calls := newTestServer(t, 200, `[]`)
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/properties", nil, nil, nil))
	assert.Empty(t, (*calls)[0].Auth)
}

func TestFilePayloadUsesMultipartAndMethodOverride(t *testing.T) {
	c, calls := newTestServer(t, 200, `{"id":4}`)

	body := Payload{
		"title":  "Villa",
		"rooms":  3,
		"images": []File{{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("x")}, {Name: "b.jpg", Data: []byte("y")}},
	}
	_, err := NewResource[domain.Property](c, "/owner/properties").Update(context.Background(), 4, body)
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/api/owner/properties/4", call.Path)
	assert.True(t, strings.HasPrefix(call.ContentType, "multipart/form-data"))
	assert.Equal(t, []string{"PUT"}, call.Form["_method"])
	assert.Equal(t, []string{"3"}, call.Form["rooms"])
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, call.Files["images[]"])
}

func TestUpdateWithoutFilesStaysPUT(t *testing.T) {
	c, calls := newTestServer(t, 200, `{"id":4}`)
	_, err := NewResource[domain.Property](c, "/owner/properties").Update(context.Background(), 4, Payload{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, (*calls)[0].Method)
	assert.Equal(t, "application/json", (*calls)[0].ContentType)
}

func TestUnauthorizedError(t *testing.T) {
	c, _ := newTestServer(t, 401, `{"message":"Unauthenticated."}`)

	err := c.Do(context.Background(), http.MethodGet, "/me", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, "Unauthenticated.", Message(err, "fallback"))
}

func TestValidationError(t *testing.T) {
	c, _ := newTestServer(t, 422, `{"message":"The given data was invalid.","errors":{"email":["The email has already been taken."]}}`)

	_, err := NewResource[domain.User](c, "/admin/agents").Create(context.Background(), Payload{"email": "a@b.com"})
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The email has already been taken."}, fields["email"])
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestNotFoundAndPlainErrors(t *testing.T) {
	c, _ := newTestServer(t, 404, `not json`)
	_, err := NewResource[domain.Contract](c, "/contracts").Get(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestAllReturnsEmptySlice(t *testing.T) {
	c, _ := newTestServer(t, 200, `{"data":[]}`)
	items, err := NewResource[domain.User](c, "/admin/clients").All(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDeleteHitsItemPath(t *testing.T) {
	c, calls := newTestServer(t, 200, `{"message":"deleted"}`)
	require.NoError(t, c.For("t1").Users.Clients().Delete(context.Background(), 12))
	assert.Equal(t, http.MethodDelete, (*calls)[0].Method)
	assert.Equal(t, "/api/admin/clients/12", (*calls)[0].Path)
}

func TestPageShapes(t *testing.T) {
	params := &pagination.Params{Page: 2, PerPage: 2, SortBy: "price", SortOrder: "asc"}

	t.Run("paginator", func(t *testing.T) {
		c, calls := newTestServer(t, 200, `{"data":[{"id":3}],"current_page":2,"last_page":5,"per_page":2,"total":9}`)
		page, err := c.For("").Properties.Listing(context.Background(), params, map[string][]string{"city": {"Rabat"}, "type": {""}})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Meta.LastPage)
		assert.Equal(t, int64(9), page.Meta.Total)
		assert.Len(t, page.Data, 1)
		assert.Contains(t, (*calls)[0].Query, "city=Rabat")
		assert.Contains(t, (*calls)[0].Query, "sort_by=price")
		assert.NotContains(t, (*calls)[0].Query, "type=")
	})

	t.Run("resource collection", func(t *testing.T) {
		c, _ := newTestServer(t, 200, `{"data":[{"id":3},{"id":4}],"meta":{"current_page":2,"last_page":3,"per_page":2,"total":6}}`)
		page, err := c.For("").Properties.Listing(context.Background(), params, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Meta.LastPage)
		assert.Len(t, page.Data, 2)
	})

	t.Run("bare array", func(t *testing.T) {
		c, _ := newTestServer(t, 200, `[{"id":1},{"id":2},{"id":3}]`)
		page, err := c.For("").Properties.Listing(context.Background(), params, nil)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, uint(3), page.Data[0].ID)
		assert.Equal(t, 2, page.Meta.LastPage)
	})

	t.Run("bare array past the end", func(t *testing.T) {
		c, _ := newTestServer(t, 200, `[{"id":1}]`)
		for _, page := range []int{3, pagination.MaxPage, 1000000000000000000} {
			far := &pagination.Params{Page: page, PerPage: 12}
			got, err := c.For("").Properties.Listing(context.Background(), far, nil)
			require.NoError(t, err)
			assert.Empty(t, got.Data)
		}
	})

	t.Run("empty", func(t *testing.T) {
		c, _ := newTestServer(t, 200, `{"data":[]}`)
		page, err := c.For("").Properties.Listing(context.Background(), params, nil)
		require.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
	})
}

func TestContextCancellation(t *testing.T) {
	c, _ := newTestServer(t, 200, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Do(ctx, http.MethodGet, "/me", nil, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuthClient(t *testing.T) {
	c, calls := newTestServer(t, 200, `{"user":{"id":1,"role":"owner","email":"a@b.com"},"token":"t1"}`)
	resp, err := c.For("").Auth.Login(context.Background(), "a@b.com", "validpass")
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)
	assert.Equal(t, domain.RoleOwner, resp.User.Role)

	var sent Credentials
	require.NoError(t, json.Unmarshal((*calls)[0].Body, &sent))
	assert.Equal(t, Credentials{Email: "a@b.com", Password: "validpass"}, sent)

	c2, _ := newTestServer(t, 200, `{"data":{"user":{"id":1},"access_token":"t2"}}`)
	resp, err = c2.For("").Auth.Login(context.Background(), "a@b.com", "validpass")
	require.NoError(t, err)
	assert.Equal(t, "t2", resp.Token)
}

func TestAuthMeShapes(t *testing.T) {
	c, _ := newTestServer(t, 200, `{"user":{"id":7,"role":"client"}}`)
	u, err := c.For("t").Auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)

	c2, _ := newTestServer(t, 200, `{"id":8,"role":"admin"}`)
	u, err = c2.For("t").Auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestContractDecisionsAndVisitStatus(t *testing.T) {
	c, calls := newTestServer(t, 200, `{"id":5,"status":"approved"}`)
	svc := c.For("t1")

	ct, err := svc.Contracts.Approve(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractApproved, ct.Status)
	_, err = svc.Contracts.Reject(context.Background(), 6)
	require.NoError(t, err)
	_, err = svc.Contracts.Request(context.Background(), Payload{"property_id": uint(2), "type": "rent"})
	require.NoError(t, err)
	_, err = svc.Visits.SetStatus(context.Background(), 3, domain.VisitConfirmed)
	require.NoError(t, err)

	assert.Equal(t, "/api/owner/contracts/5/approve", (*calls)[0].Path)
	assert.Equal(t, "/api/owner/contracts/6/reject", (*calls)[1].Path)
	assert.Equal(t, "/api/contrats", (*calls)[2].Path)
	assert.Equal(t, http.MethodPatch, (*calls)[3].Method)
	assert.Equal(t, "/api/visits/3/status", (*calls)[3].Path)
	assert.JSONEq(t, `{"status":"confirmed"}`, string((*calls)[3].Body))
}

func TestContractPDFStreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contracts/5/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4")
	}))
	defer srv.Close()

	resp, err := New(srv.URL+"/api", time.Second).For("t1").Contracts.PDF(context.Background(), 5)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.4", string(b))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}
