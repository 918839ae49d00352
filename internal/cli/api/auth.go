package api

import (
	"context"
	"net/http"

	"Portal/internal/cli/model"
)

// Fixed endpoints of the auth API.
const (
	LoginPath  = "/login"
	LogoutPath = "/logout"
)

// AuthAPI shapes auth requests and delegates them to the Client.
// It never touches the session; persisting the result is up to the caller.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI returns an AuthAPI bound to c.
func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{client: c}
}

// Login posts credentials and returns the server's LoginResult.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	res, err := Do[model.LoginResult](ctx, a.client, Request{
		Method: http.MethodPost,
		Path:   LoginPath,
		Body:   model.LoginRequest{Username: username, Password: password},
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout posts an empty request; the response body is ignored.
func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := a.client.Send(ctx, Request{Method: http.MethodPost, Path: LogoutPath})
	return err
}
