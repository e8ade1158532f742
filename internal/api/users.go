package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/theater-client/internal/model"
)

// Login exchanges credentials for the user record.  Some backends also
// return a token in the same object.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	var out model.User
	if err := c.sendJSON(ctx, http.MethodPost, "/users/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.  The caller signs in separately.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	if reg.Role == "" {
		reg.Role = model.RoleClient
	}
	var out model.User
	if err := c.sendJSON(ctx, http.MethodPost, "/users/register", nil, reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches a user profile.
func (c *Client) GetUser(ctx context.Context, userID uint64) (*model.User, error) {
	var out model.User
	if err := c.getJSON(ctx, "/users/"+pathID(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser saves profile changes and returns the stored record.
func (c *Client) UpdateUser(ctx context.Context, userID uint64, upd model.ProfileUpdate) (*model.User, error) {
	var out model.User
	if err := c.sendJSON(ctx, http.MethodPut, "/users/"+pathID(userID), nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
