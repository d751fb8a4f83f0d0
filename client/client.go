// Package client is the API client used by the viewer and admin front ends.
// All session state lives in an explicit session object owned by the Client;
// nothing is global, and the refresh loop is cancelled through its context.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrUnauthorized is returned when the server rejects the token; the client's
// session has already been cleared by the time callers see it.
var ErrUnauthorized = errors.New("unauthorized")

// Session is the bearer credential returned by login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	publicToken string

	mu        sync.Mutex
	session   *Session
	onExpired func()
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPublicToken sets the shared token used when no admin session is held.
func WithPublicToken(token string) Option {
	return func(c *Client) { c.publicToken = token }
}

// WithSessionExpiredHandler registers the navigate-to-login hook invoked after
// a 401 clears the session.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session, if any.
func (c *Client) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// SetSession restores a previously persisted session.
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &s
}

func (c *Client) clearSession() {
	c.mu.Lock()
	hadSession := c.session != nil
	c.session = nil
	onExpired := c.onExpired
	c.mu.Unlock()
	if hadSession && onExpired != nil {
		onExpired()
	}
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return c.session.Token
	}
	return c.publicToken
}

// do issues one request with the bearer header attached, decoding a JSON
// response into out. A 401 clears the session before returning.
func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.clearSession()
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

// Login authenticates and installs the returned session on the client.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var session Session
	err := c.postJSON(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &session)
	if err != nil {
		return Session{}, err
	}
	c.SetSession(session)
	return session, nil
}
