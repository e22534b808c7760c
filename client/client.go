// Package client is the Go SDK for the sims-portal API. It mirrors the
// browser-side auth logic: a session store holding the bearer token and
// derived identity fields, and a route guard that re-verifies the session
// against the server before any protected view is shown.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// Role mirrors the server-side role enumeration.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// HomePath returns the landing route for the role.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin"
	}
	return "/users"
}

// LoginPath is where unauthenticated navigations are redirected.
const LoginPath = "/login"

// User is the identity object returned by login and verify.
type User struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Rol       Role   `json:"rol"`
	Status    string `json:"status"`
}

// DisplayName joins first and last names.
func (u User) DisplayName() string {
	if u.Apellidos == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellidos
}

// APIError is a structured failure response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP Error: %d", e.StatusCode)
}

// Client calls the portal API, injecting the session's bearer token.
type Client struct {
	baseURL string
	httpc   *http.Client
	session SessionStore
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New builds a client bound to a session store.
func New(baseURL string, session SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the bound session store.
func (c *Client) Session() SessionStore {
	return c.session
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type loginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// Login authenticates with a username or email plus password. On success the
// token and derived identity fields are saved to the session as one group.
func (c *Client) Login(ctx context.Context, identifier, password string) (*User, error) {
	req := loginRequest{Password: password}
	if emailPattern.MatchString(identifier) {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, false, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" || resp.User == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}

	if err := c.session.Save(resp.Token, resp.User.Rol, resp.User.ID, resp.User.DisplayName()); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout is best-effort network-wise: the local session is always cleared,
// regardless of whether the server call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	var resp struct {
		Success bool `json:"success"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, true, &resp)
	if clearErr := c.session.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// Verify asks the server to re-validate the current token. The server
// re-fetches the subject, so the returned role and status are current, not
// the token's issuance-time snapshot.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, true, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	return resp.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, withAuth bool, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var failure struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil {
			apiErr.Message = failure.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
