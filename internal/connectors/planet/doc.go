// Package planet implements the imagery provider port against the
// Planet Labs APIs.
//
// Two APIs are involved. The Data API answers catalogue searches: a
// quick-search request carries the area of interest, acquisition date
// range and cloud-cover ceiling as a composed filter, and results come
// back as paginated GeoJSON features. The Orders API runs the
// asynchronous fulfillment workflow: an order names the scenes and the
// processing tools (clipping to the AOI, top-of-atmosphere reflectance
// scaling), then moves through queued, running and finally a success,
// partial, failed or cancelled state. Ready deliverables are exposed as
// expiring pre-signed download locations.
//
// # Architecture
//
//   - Connector: implements [driven.ImageryProvider] and manages lifecycle
//   - Client: handles API communication, authentication and rate limiting
//   - Config: endpoint and timeout configuration
//
// # Authentication
//
// Credentials come from the injected [driven.TokenProvider] per request
// and are never stored or logged here. API keys are sent as the
// username of a basic-auth header with an empty password; bearer
// tokens use an Authorization header. Download locations are
// pre-signed and fetched without credentials.
//
// # Rate limiting
//
// A token bucket throttles requests proactively below Planet's
// published per-second ceiling. When the API answers 429 anyway, the
// Retry-After header parks all traffic until the window reopens, and
// the request surfaces as a retryable [RateLimitError].
//
// # Error handling
//
// Non-2xx responses become typed errors that classify themselves for
// the core retry policy: server-side failures and throttling are
// retryable, client rejections are final. An order submission rejected
// with "no access to assets" is parsed into a [NoAccessError] naming
// the inaccessible scenes so the caller can drop them and resubmit.
package planet
