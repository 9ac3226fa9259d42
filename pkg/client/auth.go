package client

import (
	"context"
	"net/http"
)

// LoginResult carries the issued token and the user resource from a login
// response.
type LoginResult struct {
	Token string
	User  map[string]any
}

// Health is the connectivity probe payload from GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginBody struct {
	Data credentials `json:"data"`
}

// Login authenticates a regular user against POST /user/login. The token is
// read from the x-jwt-token response header, falling back to a token field in
// the body, and stored for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	return c.login(ctx, "/user/login", email, password)
}

// AdminLogin authenticates against POST /admin/login. Used by the import
// tooling to seed forms.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (LoginResult, error) {
	return c.login(ctx, "/admin/login", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (LoginResult, error) {
	body := loginBody{Data: credentials{Email: email, Password: password}}

	before := c.session.Generation()
	var user map[string]any
	if err := c.do(ctx, http.MethodPost, path, nil, body, &user); err != nil {
		return LoginResult{}, err
	}

	// do stores a header token when the response carried one; the generation
	// bump tells it apart from a token held before the request. A token that
	// was only held beforehand never satisfies a login.
	var token string
	if c.session.Generation() != before {
		token = c.session.Token()
	}
	if token == "" {
		if fromBody, ok := user["token"].(string); ok && fromBody != "" {
			token = fromBody
			c.session.Set(token)
		}
	}
	if token == "" {
		return LoginResult{}, &AuthError{Message: "login succeeded but no token was issued"}
	}
	return LoginResult{Token: token, User: user}, nil
}

// Logout clears the stored token. Purely local; the service keeps no session.
func (c *Client) Logout() {
	c.session.Clear()
}

// HealthCheck probes GET /health. It never blocks other operations and shares
// the same timeout and error taxonomy as every other call.
func (c *Client) HealthCheck(ctx context.Context) (Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return Health{}, err
	}
	return out, nil
}
