package api

import (
	"context"
	"net/url"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/pkg/pagination"
)

// PropertiesClient covers owner, client and public property endpoints
type PropertiesClient struct {
	client *Client
}

// Owner is the owner's own listings, /owner/properties
func (p *PropertiesClient) Owner() *Resource[domain.Property] {
	return NewResource[domain.Property](p.client, "/owner/properties")
}

// Client is the catalogue visible to clients, /client/properties
func (p *PropertiesClient) Client() *Resource[domain.Property] {
	return NewResource[domain.Property](p.client, "/client/properties")
}

// Public is the anonymous catalogue, /properties
func (p *PropertiesClient) Public() *Resource[domain.Property] {
	return NewResource[domain.Property](p.client, "/properties")
}

// Listing fetches one page of the public catalogue
func (p *PropertiesClient) Listing(ctx context.Context, params *pagination.Params, filters url.Values) (*pagination.Response[domain.Property], error) {
	return p.Public().Page(ctx, params, filters)
}
