package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidGeometry indicates the request polygon is unusable:
	// open ring, too few points, self-intersection, or out-of-range
	// coordinates. Fails the retrieval before any provider call.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidDates indicates the requested date window is malformed
	// (end before start, or unparseable dates).
	ErrInvalidDates = errors.New("invalid date window")

	// ErrInvalidRequest indicates the provider rejected a request as
	// malformed. Not retryable; the request itself must change.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSearchUnavailable indicates search could not complete within the
	// retry budget. The provider was reachable but persistently failing.
	ErrSearchUnavailable = errors.New("search unavailable")

	// ErrOrderTimeout indicates an order did not reach a terminal state
	// within the wait budget. Terminal for that order only; distinct from
	// a provider-reported failure.
	ErrOrderTimeout = errors.New("order wait budget exceeded")

	// ErrCorruptDownload indicates a downloaded asset failed checksum
	// verification after the retry. Scoped to a single asset.
	ErrCorruptDownload = errors.New("corrupt download")

	// ErrDestinationUnwritable indicates the destination directory cannot
	// be created or written. Fails the retrieval before any provider call.
	ErrDestinationUnwritable = errors.New("destination not writable")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// Authentication Errors.

	// ErrAuthRequired indicates the provider requires a credential but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the configured credential was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderClosed indicates an operation on a closed provider.
	ErrProviderClosed = errors.New("provider is closed")
)
