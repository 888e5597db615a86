package planet

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIError represents a Planet API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("planet: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Retryable reports whether the failed request is worth retrying.
// Server-side failures are; client rejections are final.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500
}

// RateLimitError represents a 429 response with its retry window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("planet: rate limited, retry after %s", e.RetryAfter)
}

// Retryable is always true; the limiter holds traffic until the window
// reopens, so the retry will not hammer the API.
func (e *RateLimitError) Retryable() bool { return true }

// NoAccessError is an order submission rejected because the credential
// cannot order some of the named scenes.
type NoAccessError struct {
	StatusCode int
	SceneIDs   []string
}

func (e *NoAccessError) Error() string {
	return fmt.Sprintf("planet: no access to assets: %s", strings.Join(e.SceneIDs, ", "))
}

// Retryable is always false; access does not appear with retries.
func (e *NoAccessError) Retryable() bool { return false }

// NoAccessSceneIDs returns the scenes the order was rejected for.
func (e *NoAccessError) NoAccessSceneIDs() []string { return e.SceneIDs }

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates request throttling.
func IsRateLimited(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// IsNoAccess checks if the error is an order rejection for scenes the
// credential cannot order.
func IsNoAccess(err error) bool {
	var naErr *NoAccessError
	return errors.As(err, &naErr)
}

// noAccessMarker is the fragment the Orders API embeds in rejections
// for scenes the credential cannot order.
const noAccessMarker = "No access to assets:"

// parseNoAccessScenes extracts scene IDs from a no-access rejection
// message. Entries look like "PSScene/20220822_201233_1002/analytic_udm2";
// the scene ID is the middle segment.
func parseNoAccessScenes(message string) []string {
	_, rest, found := strings.Cut(message, noAccessMarker)
	if !found {
		return nil
	}
	if idx := strings.Index(rest, ". Details"); idx >= 0 {
		rest = rest[:idx]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ".")

	var ids []string
	for _, entry := range strings.Split(rest, ",") {
		parts := strings.Split(strings.TrimSpace(entry), "/")
		if len(parts) >= 2 && parts[1] != "" {
			ids = append(ids, parts[1])
		}
	}
	return ids
}
