package planet

import "time"

// Default endpoint and client configuration.
const (
	// DefaultDataURL is the Data API base, answering catalogue searches.
	DefaultDataURL = "https://api.planet.com/data/v1"

	// DefaultOrdersURL is the Orders API base, running order fulfillment.
	DefaultOrdersURL = "https://api.planet.com/compute/ops/orders/v2"

	// DefaultTimeout is the API request timeout. Downloads are exempt;
	// they stream under context control instead.
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Planet provider.
type Config struct {
	// DataURL is the Data API base URL (default: DefaultDataURL).
	DataURL string

	// OrdersURL is the Orders API base URL (default: DefaultOrdersURL).
	OrdersURL string

	// Timeout is the API request timeout (default: 30s).
	Timeout time.Duration
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.DataURL == "" {
		c.DataURL = DefaultDataURL
	}
	if c.OrdersURL == "" {
		c.OrdersURL = DefaultOrdersURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
