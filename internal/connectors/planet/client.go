package planet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Client handles Planet API communication: authentication, rate
// limiting and error mapping. The API client enforces a request
// timeout; the download client does not, so large deliverables can
// stream under context control.
type Client struct {
	api       *http.Client
	download  *http.Client
	tokens    driven.TokenProvider
	limiter   *RateLimiter
	dataURL   string
	ordersURL string
}

// NewClient creates a Planet API client with a token provider.
func NewClient(cfg Config, tokens driven.TokenProvider) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		api: &http.Client{
			Timeout: cfg.Timeout,
		},
		download:  &http.Client{},
		tokens:    tokens,
		limiter:   NewRateLimiter(),
		dataURL:   cfg.DataURL,
		ordersURL: cfg.OrdersURL,
	}
}

// newRequest builds an authenticated API request. The credential is
// fetched from the token provider per request and attached according
// to its method; it is never stored or logged.
func (c *Client) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	switch c.tokens.Method() {
	case driven.CredentialAPIKey:
		// API keys go in as the basic-auth username, empty password.
		req.SetBasicAuth(token, "")
	case driven.CredentialBearer:
		req.Header.Set("Authorization", "Bearer "+token)
	case driven.CredentialNone:
	}

	return req, nil
}

// doJSON sends an API request and decodes the JSON response into out.
// Non-2xx responses come back as typed errors; out may be nil when the
// body does not matter.
func (c *Client) doJSON(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.limiter.UpdateFromResponse(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.wrapError(resp, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorResponse is the Planet API error body format. The Orders API
// puts human-readable causes under general; some endpoints use a bare
// message instead.
type errorResponse struct {
	General []struct {
		Message string `json:"message"`
	} `json:"general"`
	Message string `json:"message"`
}

// wrapError converts a non-2xx response into a typed error.
func (c *Client) wrapError(resp *http.Response, body []byte) error {
	message := errorMessage(body)
	url := resp.Request.URL.String()

	if ids := parseNoAccessScenes(message); len(ids) > 0 {
		return &NoAccessError{
			StatusCode: resp.StatusCode,
			SceneIDs:   ids,
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: c.limiter.Hold()}
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		URL:        url,
	}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, apiErr)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, apiErr)
	}
	return apiErr
}

// errorMessage extracts a readable cause from an error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		var parts []string
		for _, entry := range parsed.General {
			if entry.Message != "" {
				parts = append(parts, entry.Message)
			}
		}
		if parsed.Message != "" {
			parts = append(parts, parsed.Message)
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	message := strings.TrimSpace(string(body))
	if len(message) > 512 {
		message = message[:512]
	}
	return message
}

// ValidateCredentials checks the configured credential by listing
// orders, the cheapest authenticated call the Orders API offers.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.ordersURL, nil)
	if err != nil {
		return err
	}
	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("validate credentials: %w", err)
	}
	return nil
}

// openDownload opens a stream for a pre-signed delivery location.
// Signed URLs embed their own authorization, so no credential is
// attached; redirects are followed.
func (c *Client) openDownload(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.download.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}

	c.limiter.UpdateFromResponse(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if readErr != nil {
			body = nil
		}
		return nil, 0, c.wrapError(resp, body)
	}

	return resp.Body, resp.ContentLength, nil
}

// fetchJSON downloads and decodes a small pre-signed JSON document,
// the delivery manifest in practice.
func (c *Client) fetchJSON(ctx context.Context, url string, out any) error {
	body, _, err := c.openDownload(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, 16<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	c.api.CloseIdleConnections()
	c.download.CloseIdleConnections()
	return nil
}
