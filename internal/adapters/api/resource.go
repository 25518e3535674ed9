package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/914h/BabImmob-sub000/internal/pkg/pagination"
)

// Resource is the CRUD surface of one API collection such as /admin/agents
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to c
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path}
}

// Path returns the collection path
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) item(id uint) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// All lists the collection
func (r *Resource[T]) All(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, query, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one item
func (r *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodGet, r.item(id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts body to the collection
func (r *Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodPost, r.path, nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update replaces one item. File-bearing payloads travel as POST with _method=PUT.
func (r *Resource[T]) Update(ctx context.Context, id uint, body any) (*T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodPut, r.item(id), nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes one item
func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	return r.client.Do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

// Page fetches one page of the collection. The API may answer with a paginator
// object, a resource collection with meta, or a bare array that is paged here.
func (r *Resource[T]) Page(ctx context.Context, params *pagination.Params, filters url.Values) (*pagination.Response[T], error) {
	query := params.Values()
	for k, vs := range filters {
		for _, v := range vs {
			if v != "" {
				query.Add(k, v)
			}
		}
	}

	raw, err := r.client.DoRaw(ctx, http.MethodGet, r.path, query, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[T](raw, params)
}

type pageBody[T any] struct {
	Data        []T              `json:"data"`
	Meta        *pagination.Meta `json:"meta"`
	CurrentPage int              `json:"current_page"`
	LastPage    int              `json:"last_page"`
	PerPage     int              `json:"per_page"`
	Total       int64            `json:"total"`
}

func decodePage[T any](raw []byte, params *pagination.Params) (*pagination.Response[T], error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var all []T
		if err := json.Unmarshal(trimmed, &all); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}
		return slicePage(all, params), nil
	}

	var body pageBody[T]
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}
	}
	if body.Data == nil {
		body.Data = []T{}
	}

	var meta pagination.Meta
	switch {
	case body.Meta != nil:
		meta = *body.Meta
	case body.LastPage > 0:
		meta = pagination.Meta{
			CurrentPage: body.CurrentPage,
			LastPage:    body.LastPage,
			PerPage:     body.PerPage,
			Total:       body.Total,
		}
	default:
		return slicePage(body.Data, params), nil
	}

	return &pagination.Response[T]{Data: body.Data, Meta: meta}, nil
}

func slicePage[T any](all []T, params *pagination.Params) *pagination.Response[T] {
	if all == nil {
		all = []T{}
	}
	meta := pagination.GetMeta(params, int64(len(all)))
	// Pages past the end are empty. Compared by division so a huge page cannot overflow.
	start := len(all)
	if params.Page >= 1 && params.PerPage >= 1 && params.Page-1 <= len(all)/params.PerPage {
		start = (params.Page - 1) * params.PerPage
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return &pagination.Response[T]{Data: all[start:end:end], Meta: meta}
}
