package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fortuna/pivotboard/internal/store"
)

const (
	restPath       = "/rest/v1"
	DefaultTimeout = 15 * time.Second
)

var (
	ErrMissingURL = errors.New("supabase url is not configured")
	ErrMissingKey = errors.New("supabase key is not configured")
)

// Client talks to the PostgREST endpoint of a Supabase project
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// New creates a client from the project URL and access key. Both are required.
func New(baseURL, key string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	if strings.TrimSpace(key) == "" {
		return nil, ErrMissingKey
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid supabase url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		key:        key,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Ping verifies the endpoint answers. Transport failures and 5xx responses are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, c.baseURL+restPath+"/")
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reaching supabase: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("supabase unavailable: status %d", resp.StatusCode)
	}
	return nil
}

// HealthCheck is Ping under the name the health handler expects
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}

// Select fetches all rows of table, ordered ascending by orderBy when it is set
func (c *Client) Select(ctx context.Context, table, orderBy string) ([]store.Row, error) {
	q := url.Values{}
	q.Set("select", "*")
	if orderBy != "" {
		q.Set("order", orderBy+".asc")
	}
	endpoint := fmt.Sprintf("%s%s/%s?%s", c.baseURL, restPath, url.PathEscape(table), q.Encode())

	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", table, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query %s failed: status %d: %s", table, resp.StatusCode, apiMessage(body))
	}

	var rows []store.Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w (body: %s)", table, err, snippet(body))
	}

	return rows, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// apiMessage pulls the "message" field out of a PostgREST error body
func apiMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		if apiErr.Hint != "" {
			return apiErr.Message + " (" + apiErr.Hint + ")"
		}
		return apiErr.Message
	}
	return snippet(body)
}

func snippet(body []byte) string {
	return string(body[:min(len(body), 200)])
}
