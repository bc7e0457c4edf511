package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/goph-feed/internal/api"
)

// apiError is a non-2xx response decoded from the server's error envelope.
type apiError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *apiError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d: %s %v", e.Status, e.Message, e.Fields)
}

type client struct {
	base  string
	token string
	hc    *http.Client
}

func newClient(base, token string) *client {
	return &client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		hc:    &http.Client{Timeout: 15 * time.Second},
	}
}

// do sends in as JSON (when non-nil) and decodes the data member of the
// response envelope into out (when non-nil).
func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var er api.ErrorResponse
		if json.Unmarshal(raw, &er) != nil || er.Error.Message == "" {
			return &apiError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return &apiError{Status: resp.StatusCode, Message: er.Error.Message, Fields: er.Error.Fields}
	}
	if out == nil {
		return nil
	}
	var env api.Response[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return json.Unmarshal(env.Data, out)
}

func userPath(username string, rest ...string) string {
	return "/users/" + url.PathEscape(username) + strings.Join(rest, "")
}

func (c *client) Register(ctx context.Context, username, password string) (string, error) {
	var out api.TokenResponse
	err := c.do(ctx, http.MethodPost, "/users", api.CreateUserPayload{Username: username, Password: password}, &out)
	return out.Token, err
}

func (c *client) Login(ctx context.Context, username, password string) (string, error) {
	var out api.TokenResponse
	err := c.do(ctx, http.MethodPost, userPath(username, "/session"), api.LoginPayload{Password: password}, &out)
	return out.Token, err
}

func (c *client) Logout(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, userPath(username, "/session"), nil, nil)
}

func (c *client) Me(ctx context.Context) (api.UserResponse, error) {
	var out api.UserResponse
	err := c.do(ctx, http.MethodGet, "/me", nil, &out)
	return out, err
}

func (c *client) User(ctx context.Context, username string) (api.UserResponse, error) {
	var out api.UserResponse
	err := c.do(ctx, http.MethodGet, userPath(username), nil, &out)
	return out, err
}

func (c *client) Follow(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPost, userPath(username, "/follow"), nil, nil)
}

func (c *client) Following(ctx context.Context, username string) ([]api.UserResponse, error) {
	var out []api.UserResponse
	err := c.do(ctx, http.MethodGet, userPath(username, "/following"), nil, &out)
	return out, err
}

func (c *client) Followers(ctx context.Context, username string) ([]api.UserResponse, error) {
	var out []api.UserResponse
	err := c.do(ctx, http.MethodGet, userPath(username, "/followers"), nil, &out)
	return out, err
}

func (c *client) Post(ctx context.Context, content string) (api.PostEventResponse, error) {
	var out api.PostEventResponse
	err := c.do(ctx, http.MethodPost, "/events", api.CreateEventPayload{Content: &content}, &out)
	return out, err
}

// Timeline omits zero page and size so the server defaults apply.
func (c *client) Timeline(ctx context.Context, page, size int) ([]api.EventResponse, error) {
	q := url.Values{}
	if page != 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size != 0 {
		q.Set("page_size", strconv.Itoa(size))
	}
	path := "/me/timeline"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []api.EventResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}
