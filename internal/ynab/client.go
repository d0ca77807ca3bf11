// Package ynab is a read-only client for the two YNAB API operations the
// gateway exposes: listing budgets and listing a budget's categories.
package ynab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBaseURL is the root of the public YNAB API.
const DefaultBaseURL = "https://api.ynab.com/v1"

const (
	// ClientTimeout is the total request timeout.
	ClientTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 20 * time.Second

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 16 << 20
	// maxErrorDetail bounds a non-JSON error body used as detail.
	maxErrorDetail = 512
)

// Budget is a budget summary exactly as YNAB returns it.
type Budget = json.RawMessage

// CategoryGroup is a category group, with its categories, exactly as YNAB
// returns it.
type CategoryGroup = json.RawMessage

// NewHTTPClient creates an HTTP client for YNAB API calls.
// It has explicit timeouts and does not follow redirects.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = ClientTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		// A redirect would replay the Authorization header elsewhere.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to NewHTTPClient(0).
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client performs authenticated, single-attempt calls against the YNAB API.
// The token is passed per call and only ever placed in the Authorization
// header.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a YNAB API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type budgetsResponse struct {
	Data struct {
		Budgets []Budget `json:"budgets"`
	} `json:"data"`
}

type categoriesResponse struct {
	Data struct {
		CategoryGroups []CategoryGroup `json:"category_groups"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}

// ListBudgets returns the budgets visible to token.
func (c *Client) ListBudgets(ctx context.Context, token string) ([]Budget, error) {
	var out budgetsResponse
	if err := c.get(ctx, "list_budgets", "/budgets", token, &out); err != nil {
		return nil, err
	}
	if out.Data.Budgets == nil {
		return []Budget{}, nil
	}
	return out.Data.Budgets, nil
}

// ListCategories returns the category groups of budgetID. An empty budgetID
// fails with ErrBudgetIDRequired without contacting the API.
func (c *Client) ListCategories(ctx context.Context, budgetID, token string) ([]CategoryGroup, error) {
	if budgetID == "" {
		return nil, ErrBudgetIDRequired
	}

	var out categoriesResponse
	path := "/budgets/" + url.PathEscape(budgetID) + "/categories"
	if err := c.get(ctx, "list_categories", path, token, &out); err != nil {
		return nil, err
	}
	if out.Data.CategoryGroups == nil {
		return []CategoryGroup{}, nil
	}
	return out.Data.CategoryGroups, nil
}

// get performs one authenticated GET and decodes a 2xx body into out.
// Non-2xx responses become *APIError, everything else *TransportError.
func (c *Client) get(ctx context.Context, op, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("upstream request",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// parseAPIError builds an APIError from a YNAB error body, falling back to
// the raw body text when it is not the documented shape.
func parseAPIError(status int, body []byte) *APIError {
	apiError := &APIError{StatusCode: status}

	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && (parsed.Error.Detail != "" || parsed.Error.Name != "") {
		apiError.ID = parsed.Error.ID
		apiError.Name = parsed.Error.Name
		apiError.Detail = parsed.Error.Detail
		return apiError
	}

	detail := strings.TrimSpace(string(body))
	apiError.Detail = truncateDetail(detail, maxErrorDetail)
	return apiError
}

// truncateDetail cuts s to at most n bytes without splitting a rune.
func truncateDetail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
