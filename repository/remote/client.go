// Package remote implements the record gateway as a JSON client of another
// taskflow server's record API.
package remote

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

	"go.uber.org/zap"

	"taskflow/domain/gateway"
	"taskflow/infrastructure/circuitbreaker"
)

const (
	// HeaderProjectID names the project the records belong to
	HeaderProjectID = "X-Project-ID"
	// HeaderPublicKey carries the client credential
	HeaderPublicKey = "X-Public-Key"

	recordsPath = "/api/v1/records/"
)

// Config holds the client settings
type Config struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// Client talks to a remote record API
type Client struct {
	baseURL        string
	projectID      string
	publicKey      string
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *zap.Logger
}

// NewClient creates a client. A nil breaker disables short-circuiting.
func NewClient(cfg Config, circuitBreaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:        base,
		projectID:      cfg.ProjectID,
		publicKey:      cfg.PublicKey,
		client:         &http.Client{Timeout: timeout},
		circuitBreaker: circuitBreaker,
		logger:         logger,
	}, nil
}

func (c *Client) FetchRecords(ctx context.Context, collection string, params gateway.QueryParams) (*gateway.FetchResponse, error) {
	var out gateway.FetchResponse
	if err := c.do(ctx, http.MethodPost, c.url(collection, "query"), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecordByID(ctx context.Context, collection string, id int64, params gateway.QueryParams) (*gateway.GetResponse, error) {
	target := c.url(collection, strconv.FormatInt(id, 10))
	if len(params.Fields) > 0 {
		target += "?fields=" + url.QueryEscape(strings.Join(params.Fields, ","))
	}
	var out gateway.GetResponse
	if err := c.do(ctx, http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRecord(ctx context.Context, collection string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	var out gateway.WriteResponse
	if err := c.do(ctx, http.MethodPost, c.url(collection, ""), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRecord(ctx context.Context, collection string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	var out gateway.WriteResponse
	if err := c.do(ctx, http.MethodPut, c.url(collection, ""), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, collection string, req gateway.DeleteRequest) (*gateway.DeleteResponse, error) {
	var out gateway.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, c.url(collection, ""), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) url(collection, suffix string) string {
	u := c.baseURL + recordsPath + url.PathEscape(collection)
	if suffix != "" {
		u += "/" + suffix
	}
	return u
}

// do runs one request under the circuit breaker. Only transport failures and
// non-2xx answers count against the breaker; a rejected envelope does not.
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	call := func() error { return c.roundTrip(ctx, method, target, body, out) }
	if c.circuitBreaker == nil {
		return call()
	}
	return c.circuitBreaker.Execute(c.baseURL, call)
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.projectID != "" {
		req.Header.Set(HeaderProjectID, c.projectID)
	}
	if c.publicKey != "" {
		req.Header.Set(HeaderPublicKey, c.publicKey)
	}

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Remote gateway call",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(startTime)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ gateway.Gateway = (*Client)(nil)
