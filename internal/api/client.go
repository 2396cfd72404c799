package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultTimeout bounds a single request/response cycle when the
// caller does not supply its own http.Client.
const defaultTimeout = 30 * time.Second

// Client talks to the VM management backend. The base URL is an
// environment-specific value (config file, VMDASH_API_URL, or flag);
// the Client itself holds no credentials or retry logic.
//
// A Client is safe for use from a single goroutine per operation; it
// keeps no mutable state between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. to set a
// custom timeout or transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the diagnostic logger. Request IDs and failures are
// logged here; nothing on this channel is user-facing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the backend at baseURL. A trailing slash on
// baseURL is tolerated.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListVMs fetches the current fleet snapshot.
//
// Returns the VMs in the order the backend reported them.
func (c *Client) ListVMs(ctx context.Context) ([]VirtualMachine, error) {
	var vms []VirtualMachine
	if err := c.do(ctx, http.MethodGet, "/vms", nil, &vms); err != nil {
		return nil, err
	}
	return vms, nil
}

// TogglePower asks the backend to flip the power state of the named VM.
// The status observed at call time is sent verbatim; the backend, not
// the client, decides the resulting action.
func (c *Client) TogglePower(ctx context.Context, name, zone string, current Status) error {
	query := url.Values{}
	query.Set("zone", zone)
	query.Set("current_status", string(current))

	path := fmt.Sprintf("/vms/%s/toggle_power", url.PathEscape(name))
	return c.do(ctx, http.MethodPost, path, query, nil)
}

// Connect asks the backend for the SSH command to reach the named VM.
// ipExternal is included only when the VM has one; connecting never
// changes VM state.
func (c *Client) Connect(ctx context.Context, name, zone, ipExternal string) (*ConnectInfo, error) {
	query := url.Values{}
	query.Set("zone", zone)
	if ipExternal != "" {
		query.Set("ip_external", ipExternal)
	}

	path := fmt.Sprintf("/vms/%s/connect", url.PathEscape(name))
	var info ConnectInfo
	if err := c.do(ctx, http.MethodPost, path, query, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// do issues a single request and decodes a 2xx response body into out
// (skipped when out is nil). Non-2xx responses become *Error; transport
// failures are wrapped and returned as-is.
//
// All action parameters travel as query parameters and the request body
// is always empty, matching the backend contract.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	// The contract declares JSON even for bodyless requests.
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api transport failure",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errorFromResponse(resp)
		c.logger.Warn("api error response",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
