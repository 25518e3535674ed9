package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
)

// VisitsClient covers visit scheduling
type VisitsClient struct {
	client *Client
}

// Mine is the signed-in user's visits, /visits
func (v *VisitsClient) Mine() *Resource[domain.Visit] {
	return NewResource[domain.Visit](v.client, "/visits")
}

// Admin is every visit, /admin/visits
func (v *VisitsClient) Admin() *Resource[domain.Visit] {
	return NewResource[domain.Visit](v.client, "/admin/visits")
}

// SetStatus moves a visit to status
func (v *VisitsClient) SetStatus(ctx context.Context, id uint, status domain.VisitStatus) (*domain.Visit, error) {
	var out domain.Visit
	body := Payload{"status": string(status)}
	if err := v.client.Do(ctx, http.MethodPatch, fmt.Sprintf("/visits/%d/status", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
