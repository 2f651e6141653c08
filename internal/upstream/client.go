package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"wareg/internal/metrics"
	"wareg/internal/model"

	"github.com/rs/zerolog"
)

const (
	operationListMenus   = "list_menus"
	operationCreateOrder = "create_order"

	contentTypeJSON = "application/json; charset=utf-8"
)

// Client is the remote menu/order API.
type Client interface {
	// ListMenus fetches the full menu catalogue.
	ListMenus(ctx context.Context) ([]model.MenuItem, error)

	// CreateOrder submits one order. The bearer token is taken from ctx.
	CreateOrder(ctx context.Context, req model.OrderRequest) error
}

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Temporary reports whether the status indicates an upstream fault rather than a rejection.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500
}

// HTTPClient talks to the remote API over HTTP. It never retries.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPClient creates a client rooted at baseURL. A zero timeout means no client timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger.With().Str("component", "upstream").Logger(),
	}
}

// ListMenus fetches GET /menus.
func (c *HTTPClient) ListMenus(ctx context.Context) ([]model.MenuItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/menus", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create menus request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(operationListMenus, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload model.MenusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode menus: %w", err)
	}

	if payload.Menus == nil {
		payload.Menus = []model.MenuItem{}
	}

	c.logger.Debug().Int("count", len(payload.Menus)).Msg("menus fetched")

	return payload.Menus, nil
}

// CreateOrder posts req to POST /orders.
func (c *HTTPClient) CreateOrder(ctx context.Context, order model.OrderRequest) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.do(operationCreateOrder, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// do executes req and converts non-2xx answers into *StatusError.
func (c *HTTPClient) do(operation string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.logger.Warn().Err(err).Str("operation", operation).Msg("upstream request failed")
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "rejected").Inc()
		c.logger.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Msg("upstream request rejected")
		return nil, &StatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(operation, "success").Inc()
	return resp, nil
}
