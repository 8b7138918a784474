// Package httpapi implements the storage contracts against a remote
// HTTP+JSON API. It mirrors the postgres driver operation for
// operation so either backend can be selected from configuration.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m3rciful/kinobot/storage"
)

const defaultTimeout = 10 * time.Second

// Options configures the remote store client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the remote storage API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds the full store backed by a remote API client.
func New(opts Options) (storage.Store, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return storage.Store{}, fmt.Errorf("httpapi: base URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: base,
		token:   opts.Token,
		http:    &http.Client{Timeout: timeout},
	}
	return storage.Store{Users: c, Channels: c, Movies: c}, nil
}

// Upsert creates or refreshes the user record on the remote store.
func (c *Client) Upsert(ctx context.Context, telegramID int64, username string) error {
	body := map[string]any{
		"telegram_id": telegramID,
		"username":    username,
	}
	return c.do(ctx, http.MethodPost, "/users", body, nil)
}

// List returns the remote required channel set.
func (c *Client) List(ctx context.Context) ([]storage.Channel, error) {
	var channels []storage.Channel
	if err := c.do(ctx, http.MethodGet, "/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// Create commits a completed draft and returns the new movie ID.
func (c *Client) Create(ctx context.Context, draft storage.DraftMovie) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/movies", draft, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// FindByCode returns the first movie with the exact code or ErrNotFound.
func (c *Client) FindByCode(ctx context.Context, code string) (*storage.Movie, error) {
	var m storage.Movie
	path := "/movies?code=" + url.QueryEscape(code)
	if err := c.do(ctx, http.MethodGet, path, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpapi: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpapi: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return storage.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("httpapi: %s %s: unexpected status %s", method, path, resp.Status)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpapi: decode %s %s: %w", method, path, err)
	}
	return nil
}
