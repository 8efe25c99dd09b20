package client

import (
	"context"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// RegisterParams is the body of a registration request.
type RegisterParams struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, params *RegisterParams) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/api/v1/users", params, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login verifies credentials and returns the account.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	body := map[string]string{"username": username, "password": password}

	var u domain.User
	if err := c.post(ctx, "/api/v1/login", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
