package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     models.Credentials{Username: username, Password: password},
		fallback: "Login failed",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. Whether the response carries a token is up to the backend.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     req,
		fallback: "Registration failed",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, token string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/logout",
		token:    token,
		body:     struct{}{},
		fallback: "Logout failed",
	})
}
