package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/workoutgen/internal/generator"
	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/workout"
)

// HTTPClient implements Backend by calling the workoutgen REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// library and templates live on the server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// getAttempts is how often a GET is tried before giving up.
const getAttempts = 3

// Compile-time check: HTTPClient satisfies Backend.
var _ Backend = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting baseURL. apiKey is sent on
// template writes.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		backoff:    time.Second,
	}
}

// do sends a request and decodes a 2xx JSON response into out. GETs are
// retried with exponential backoff on transport errors and 5xx responses.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode %s: %w", path, err)
		}
		payload = data
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = getAttempts
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		data, status, err := c.send(ctx, method, path, payload)
		if err != nil {
			lastErr = err
			continue
		}
		if status >= 500 {
			lastErr = fmt.Errorf("httpclient: %s returned %d: %s", path, status, data)
			continue
		}
		if status < 200 || status > 299 {
			return fmt.Errorf("httpclient: %s returned %d: %s", path, status, data)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("httpclient: decode %s: %w", path, err)
		}
		return nil
	}
	if attempts > 1 {
		return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
	}
	return lastErr
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: read body: %w", err)
	}
	return bytes.TrimSpace(data), resp.StatusCode, nil
}

func (c *HTTPClient) ListMuscleGroups(ctx context.Context) ([]generator.TagCount, error) {
	var tags []generator.TagCount
	if err := c.do(ctx, http.MethodGet, "/api/v1/pool", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *HTTPClient) Validate(ctx context.Context, quotas []models.MuscleQuota) (generator.ValidationResult, error) {
	var result generator.ValidationResult
	err := c.do(ctx, http.MethodPost, "/api/v1/validate", map[string]any{"quotas": quotas}, &result)
	return result, err
}

func (c *HTTPClient) Generate(ctx context.Context, quotas []models.MuscleQuota) (workout.GenerateResponse, error) {
	var resp workout.GenerateResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/generate", map[string]any{"quotas": quotas}, &resp)
	return resp, err
}

func (c *HTTPClient) ListTemplates(ctx context.Context) ([]models.QuotaTemplate, error) {
	var list []models.QuotaTemplate
	if err := c.do(ctx, http.MethodGet, "/api/v1/templates", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) SaveTemplate(ctx context.Context, name string, quotas []models.MuscleQuota) (models.QuotaTemplate, error) {
	var tmpl models.QuotaTemplate
	err := c.do(ctx, http.MethodPost, "/api/v1/templates", map[string]any{"name": name, "quotas": quotas}, &tmpl)
	return tmpl, err
}
