// Package box provides a StorageProvider adapter for the Box Content API.
package box

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.StorageProvider = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.box.com/2.0"
	DefaultTimeout = 30 * time.Second

	// Box allows well over this per user; stay conservative.
	defaultRequestsPerSecond = 8.0
	defaultBurstSize         = 10
)

// Config holds configuration for the Box client.
type Config struct {
	// BaseURL is the API base URL (default: https://api.box.com/2.0).
	// Overridable for tests.
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client calls the Box Content API. Tokens come from the provider on
// every request, so a refresh mid-run is picked up transparently. The
// client itself holds no mutable session state and is safe for
// concurrent use.
type Client struct {
	http          *http.Client
	baseURL       string
	tokenProvider driven.TokenProvider
	limiter       *rate.Limiter
}

// NewClient creates a new Box API client with a token provider.
func NewClient(tokenProvider driven.TokenProvider, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		http:          &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.BaseURL,
		tokenProvider: tokenProvider,
		limiter:       rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurstSize),
	}
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, url string, headers map[string]string, out any) error {
	resp, err := c.do(ctx, url, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do issues an authenticated GET and returns the raw response.
// The caller owns the body.
func (c *Client) do(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// apiError turns a non-2xx Box response into an error. The caller still
// owns the body.
func (c *Client) apiError(resp *http.Response) error {
	var boxErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && json.Unmarshal(body, &boxErr) == nil && boxErr.Message != "" {
		return fmt.Errorf("box: %s (status %d): %s", boxErr.Code, resp.StatusCode, boxErr.Message)
	}
	return fmt.Errorf("box: status %d", resp.StatusCode)
}
