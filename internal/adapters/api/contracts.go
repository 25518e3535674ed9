package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
)

// ContractsClient covers contract listing, requests, owner decisions and PDFs
type ContractsClient struct {
	client *Client
}

// Mine is the signed-in user's contracts, /contracts
func (c *ContractsClient) Mine() *Resource[domain.Contract] {
	return NewResource[domain.Contract](c.client, "/contracts")
}

// Admin is every contract, /admin/contracts
func (c *ContractsClient) Admin() *Resource[domain.Contract] {
	return NewResource[domain.Contract](c.client, "/admin/contracts")
}

// Request asks for a new contract on a property. The API keeps the historical /contrats path.
func (c *ContractsClient) Request(ctx context.Context, body Payload) (*domain.Contract, error) {
	var out domain.Contract
	if err := c.client.Do(ctx, http.MethodPost, "/contrats", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve accepts a pending contract as its owner
func (c *ContractsClient) Approve(ctx context.Context, id uint) (*domain.Contract, error) {
	return c.decide(ctx, id, "approve")
}

// Reject declines a pending contract as its owner
func (c *ContractsClient) Reject(ctx context.Context, id uint) (*domain.Contract, error) {
	return c.decide(ctx, id, "reject")
}

func (c *ContractsClient) decide(ctx context.Context, id uint, action string) (*domain.Contract, error) {
	var out domain.Contract
	path := fmt.Sprintf("/owner/contracts/%d/%s", id, action)
	if err := c.client.Do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PDF opens the printable contract. The caller closes the response body.
func (c *ContractsClient) PDF(ctx context.Context, id uint) (*http.Response, error) {
	return c.client.Stream(ctx, http.MethodGet, fmt.Sprintf("/contracts/%d/pdf", id), nil, nil)
}
