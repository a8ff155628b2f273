package api

import (
	"context"
	"errors"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. No session state is
// touched here; storing the token is the caller's job.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("login response carried no access token")
	}
	return resp.AccessToken, nil
}

// Signup registers a new account. There is no auto-login: the caller sends
// the user through the login flow afterwards.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", signupRequest{Name: name, Email: email, Password: password}, nil)
}
