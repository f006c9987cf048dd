// Package client provides the HTTP client the cbws CLI uses to talk to a
// running bridge.
//
// BridgeClient wraps resty with the bridge's base URL, timeouts, a retry
// policy for connection failures and debug logging of every request.
package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cloudbrain/cbws/cmd/cbws/utils"
	"github.com/cloudbrain/cbws/internal/bridge/handlers"
	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/version"
	"github.com/go-resty/resty/v2"
)

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse = handlers.HealthResponse

// BridgeClient talks to a bridge's HTTP API
type BridgeClient struct {
	client  *resty.Client
	baseURL string
}

// NewBridgeClient creates a client for the bridge at addr (host:port) with
// the given timeout in seconds.
func NewBridgeClient(addr string, timeout int) *BridgeClient {
	client := resty.New()

	baseURL := fmt.Sprintf("http://%s/api/v1", addr)

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(utils.RestyLogger{})

	client.
		SetTimeout(time.Duration(timeout)*time.Second).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("cbws/%s", version.CbwsVersion))

	// Only retry on connection errors, not HTTP errors
	client.
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &BridgeClient{
		client:  client,
		baseURL: baseURL,
	}
}

// SetRetryCount overrides the number of connection retries.
func (c *BridgeClient) SetRetryCount(n int) *BridgeClient {
	c.client.SetRetryCount(n)
	return c
}

// GetHealth fetches the bridge's health report
func (c *BridgeClient) GetHealth() (*HealthResponse, error) {
	var health HealthResponse

	resp, err := c.client.R().
		SetResult(&health).
		Get("/health")

	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge at %s: %w", c.baseURL, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("health request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return &health, nil
}
