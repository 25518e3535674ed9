package api

// Services groups the typed clients bound to one token
type Services struct {
	Auth       *AuthClient
	Users      *UsersClient
	Properties *PropertiesClient
	Contracts  *ContractsClient
	Visits     *VisitsClient
}

// NewServices binds every typed client to c
func NewServices(c *Client) *Services {
	return &Services{
		Auth:       &AuthClient{client: c},
		Users:      &UsersClient{client: c},
		Properties: &PropertiesClient{client: c},
		Contracts:  &ContractsClient{client: c},
		Visits:     &VisitsClient{client: c},
	}
}

// For returns the typed clients of c bound to token
func (c *Client) For(token string) *Services {
	return NewServices(c.WithToken(token))
}
