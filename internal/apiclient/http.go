// Package apiclient is the HTTP transport and feedback service client used by
// the web and CLI views.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/logger"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8082/api/v1"
	DefaultTimeout = 30 * time.Second
)

var emptyObject = json.RawMessage(`{}`)

// Config is injected at startup; the client never reads the environment.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client sends JSON requests to the feedback API and maps failures to *APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewClient builds a Client, falling back to DefaultBaseURL and DefaultTimeout.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        logger.Named("apiclient"),
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request and returns the raw JSON payload.
func (c *Client) Get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, endpoint, body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := newTransportError(err)
		c.log.Errorw("request failed without response", "method", method, "endpoint", endpoint, "error", err)
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorw("failed to read response body",
			"method", method,
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"error", err,
		)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Err: err}
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseErrorResponse(resp.StatusCode, respBody)
		c.log.Warnw("request returned error status",
			"method", method,
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"kind", apiErr.Kind().String(),
		)
		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return emptyObject, nil
	}

	return json.RawMessage(respBody), nil
}

type errorBody struct {
	Errors  []domain.FieldError `json:"errors"`
	Message string              `json:"message"`
	Error   string              `json:"error"`
}

// parseErrorResponse prefers a structured field list, then a JSON message,
// then the raw body, then the status text. JSON without a message leaves
// Message empty so the view falls back to the status code.
func parseErrorResponse(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Errors) > 0 {
			apiErr.FieldErrors = parsed.Errors
			return apiErr
		}
		switch {
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		case parsed.Error != "":
			apiErr.Message = parsed.Error
		}
		return apiErr
	}

	if raw := strings.TrimSpace(string(body)); raw != "" && !json.Valid(body) {
		apiErr.Message = raw
		return apiErr
	}

	apiErr.Message = http.StatusText(status)
	return apiErr
}
