package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/models"
)

// GetUserProfile returns the profile of the token's owner.
func (c *Client) GetUserProfile(ctx context.Context, token string) (*models.User, error) {
	return c.user(ctx, call{
		method:   http.MethodGet,
		path:     "/user/profile",
		token:    token,
		fallback: "Failed to fetch user profile",
	})
}

func (c *Client) UpdateUserProfile(ctx context.Context, token string, update models.UserUpdate) (*models.User, error) {
	return c.user(ctx, call{
		method:   http.MethodPut,
		path:     "/user/profile",
		token:    token,
		body:     update,
		fallback: "Failed to update profile",
	})
}

// GetAllUsers lists every account (admin).
func (c *Client) GetAllUsers(ctx context.Context, token string) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/user/",
		token:    token,
		fallback: "Failed to fetch users",
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByID returns any user's profile (admin).
func (c *Client) GetUserByID(ctx context.Context, token, userID string) (*models.User, error) {
	return c.user(ctx, call{
		method:   http.MethodGet,
		path:     pathf("/user/%s", userID),
		token:    token,
		fallback: "Failed to fetch user data",
	})
}

// UpdateUserByID updates any user's profile (admin).
func (c *Client) UpdateUserByID(ctx context.Context, token, userID string, update models.UserUpdate) (*models.User, error) {
	return c.user(ctx, call{
		method:   http.MethodPut,
		path:     pathf("/user/%s", userID),
		token:    token,
		body:     update,
		fallback: "Failed to update user",
	})
}

// DeleteUserByID removes any user (admin).
func (c *Client) DeleteUserByID(ctx context.Context, token, userID string) (*models.Message, error) {
	return c.message(ctx, call{
		method:   http.MethodDelete,
		path:     pathf("/user/%s", userID),
		token:    token,
		fallback: "Failed to delete user",
	})
}

func (c *Client) user(ctx context.Context, cl call) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, cl, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// message runs an acknowledgement call. Once the backend answers 2xx the
// mutation has happened, so the body is read best-effort and never fails it.
func (c *Client) message(ctx context.Context, cl call) (*models.Message, error) {
	var body []byte
	if err := c.do(ctx, cl, &body); err != nil {
		return nil, err
	}
	msg := models.ParseMessage(body)
	return &msg, nil
}
