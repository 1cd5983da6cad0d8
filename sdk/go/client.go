// Package sdk provides a typed Go client for the HabitQuest HTTP and
// WebSocket API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"habitquest/core"
	"habitquest/engine"
)

// Option configures the Client.
type Option func(*Client)

// Client provides typed access to the HabitQuest HTTP + WebSocket API.
type Client struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	headers    http.Header
}

// NewClient constructs a new SDK client targeting the given baseURL (e.g., http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL:    baseURL,
		wsURL:      deriveWSURL(baseURL),
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAuthToken adds an Authorization: Bearer token header to all requests (HTTP + WS).
func WithAuthToken(token string) Option {
	return func(c *Client) {
		if strings.TrimSpace(token) != "" {
			c.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithAPIKey adds an X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.headers.Set("X-API-Key", key)
		}
	}
}

// WithHeader sets an arbitrary header applied to HTTP and WS calls.
func WithHeader(k, v string) Option {
	return func(c *Client) {
		if k != "" {
			c.headers.Set(k, v)
		}
	}
}

// LogActivity submits one completed activity and returns the updated profile
// plus the rewards it produced.
func (c *Client) LogActivity(ctx context.Context, profileID, activity string, duration int) (LogResult, error) {
	if strings.TrimSpace(profileID) == "" {
		return LogResult{}, ErrEmptyProfileID
	}

	body, err := json.Marshal(map[string]any{"activity": activity, "duration": duration})
	if err != nil {
		return LogResult{}, err
	}

	u := fmt.Sprintf("%s/profiles/%s/logs", c.baseURL, url.PathEscape(profileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return LogResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LogResult{}, err
	}
	defer resp.Body.Close()

	var result LogResult
	if err := decodeJSON(resp, &result); err != nil {
		return LogResult{}, err
	}
	return result, nil
}

// AddActivity registers a custom activity definition on a profile.
func (c *Client) AddActivity(ctx context.Context, profileID string, def core.ActivityDefinition) (core.Profile, error) {
	if strings.TrimSpace(profileID) == "" {
		return core.Profile{}, ErrEmptyProfileID
	}

	body, err := json.Marshal(def)
	if err != nil {
		return core.Profile{}, err
	}

	u := fmt.Sprintf("%s/profiles/%s/activities", c.baseURL, url.PathEscape(profileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return core.Profile{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.Profile{}, err
	}
	defer resp.Body.Close()

	var profile core.Profile
	if err := decodeJSON(resp, &profile); err != nil {
		return core.Profile{}, err
	}
	return profile, nil
}

// GetProfile fetches the current progression state for a profile.
func (c *Client) GetProfile(ctx context.Context, profileID string) (core.Profile, error) {
	if strings.TrimSpace(profileID) == "" {
		return core.Profile{}, ErrEmptyProfileID
	}
	u := fmt.Sprintf("%s/profiles/%s", c.baseURL, url.PathEscape(profileID))

	var profile core.Profile
	if err := c.getJSON(ctx, u, &profile); err != nil {
		return core.Profile{}, err
	}
	return profile, nil
}

// Achievements lists the full achievement registry annotated with the
// profile's unlock state.
func (c *Client) Achievements(ctx context.Context, profileID string) ([]AchievementStatus, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, ErrEmptyProfileID
	}
	u := fmt.Sprintf("%s/profiles/%s/achievements", c.baseURL, url.PathEscape(profileID))

	var statuses []AchievementStatus
	if err := c.getJSON(ctx, u, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Catalog lists built-in plus custom activity definitions for a profile.
func (c *Client) Catalog(ctx context.Context, profileID string) ([]core.ActivityDefinition, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, ErrEmptyProfileID
	}
	u := fmt.Sprintf("%s/profiles/%s/catalog", c.baseURL, url.PathEscape(profileID))

	var defs []core.ActivityDefinition
	if err := c.getJSON(ctx, u, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// Health probes /healthz and returns status + storage check.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	if err := c.getJSON(ctx, c.baseURL+"/healthz", &hs); err != nil {
		return HealthStatus{}, err
	}
	return hs, nil
}

// SubscribeEvents connects to the WebSocket stream and emits engine.Event values.
// The returned channel closes when ctx is done or the connection drops.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan engine.Event, error) {
	if c.wsURL == "" {
		return nil, errors.New("wsURL is not set; ensure baseURL is http/https")
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, c.headers)
	if err != nil {
		return nil, err
	}

	out := make(chan engine.Event, 32)
	go func() {
		defer close(out)
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				return
			default:
				var evt engine.Event
				if err := conn.ReadJSON(&evt); err != nil {
					return
				}
				select {
				case out <- evt:
				default:
					// drop if consumer is slow
				}
			}
		}
	}()
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeJSON(resp, target)
}

func (c *Client) applyHeaders(r *http.Request) {
	for k, vals := range c.headers {
		for _, v := range vals {
			r.Header.Add(k, v)
		}
	}
}

func deriveWSURL(httpBase string) string {
	u, err := url.Parse(httpBase)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		// leave as-is for custom schemes
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}
