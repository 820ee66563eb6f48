// Package kpi executes validated KPI queries against the remote KPI API.
package kpi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/j-veylop/kpi-dashboard-tui/internal/logger"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

const dataPath = "/api/data"

// Client issues KPI API requests. It holds no mutable state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for baseURL. A nil httpClient means http.DefaultClient.
// No timeout is imposed; callers bound requests through their context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the request URL for a descriptor.
func (c *Client) URL(d *query.Descriptor) string {
	return c.baseURL + dataPath + "?" + d.Encode()
}

// Fetch performs the GET for d and returns the raw JSON body.
// All failures are returned as *ExecutionError.
func (c *Client) Fetch(ctx context.Context, d *query.Descriptor) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExecutionError{Kind: KindCanceled, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(d), nil)
	if err != nil {
		return nil, &ExecutionError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExecutionError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if !json.Valid(body) {
		return nil, &ExecutionError{Kind: KindParse, Err: errors.New("response body is not valid JSON")}
	}

	return json.RawMessage(body), nil
}

// Execute fetches d and decodes the body into records.
func (c *Client) Execute(ctx context.Context, d *query.Descriptor) ([]models.Record, error) {
	body, err := c.Fetch(ctx, d)
	if err != nil {
		return nil, err
	}

	records, err := models.DecodeRecords(body)
	if err != nil {
		return nil, &ExecutionError{Kind: KindParse, Err: err}
	}
	return records, nil
}

func classify(ctx context.Context, err error) *ExecutionError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &ExecutionError{Kind: KindCanceled, Err: ctxErr}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ExecutionError{Kind: KindCanceled, Err: err}
	}
	return &ExecutionError{Kind: KindTransport, Err: err}
}
