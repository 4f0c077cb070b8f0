package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds every request to the tracker
	DefaultTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a response body is read
	maxBodyBytes = 32 << 20
)

// UserAgent is sent with every request; cmd overrides the version at startup.
var UserAgent = "lead-dashboard/dev"

// APIClient talks to the remote tracking API
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the given base URL. A nil httpClient
// gets a default client with DefaultTimeout.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured API base
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// apiResponse is a fully read response
type apiResponse struct {
	Status int
	Body   []byte
}

func (r *apiResponse) ok() bool {
	return r.Status == http.StatusOK
}

// do issues one request. A non-nil error means no usable response arrived.
func (c *APIClient) do(ctx context.Context, method, path, token string, payload interface{}) (*apiResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		LogDebug("%s %s request_id=%s failed: %v", method, path, requestID, err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	LogDebug("%s %s request_id=%s status=%d bytes=%d took=%s",
		method, path, requestID, resp.StatusCode, len(data), time.Since(start).Round(time.Millisecond))

	return &apiResponse{Status: resp.StatusCode, Body: data}, nil
}

// retrievalKind maps a failed status to its retrieval kind
func retrievalKind(status int) RetrievalKind {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return RetrievalUnauthorized
	}
	return RetrievalUnavailable
}

// Ping checks that the tracker answers at all. Any HTTP response counts as
// reachable; the status is returned for display.
func (c *APIClient) Ping(ctx context.Context) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, "/leads", "", nil)
	if err != nil {
		return 0, err
	}
	return resp.Status, nil
}
