package planet

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.ImageryProvider = (*Connector)(nil)

// Connector is the Planet implementation of the imagery provider port.
type Connector struct {
	client *Client
	mu     sync.Mutex
	closed bool
}

// New creates a Planet connector. The token provider supplies the
// credential per request; the connector never stores it.
func New(cfg Config, tokens driven.TokenProvider) *Connector {
	return &Connector{
		client: NewClient(cfg, tokens),
	}
}

// guard rejects calls on a closed connector.
func (c *Connector) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrProviderClosed
	}
	return nil
}

// Validate checks the configured credential by making a real API call.
func (c *Connector) Validate(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.client.ValidateCredentials(ctx); err != nil {
		if IsUnauthorized(err) {
			return domain.ErrAuthInvalid
		}
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}
	return nil
}

// SearchScenes fetches one page of scenes matching the query.
func (c *Connector) SearchScenes(ctx context.Context, query driven.SceneQuery) (*driven.ScenePage, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	return c.client.SearchScenes(ctx, query)
}

// SubmitOrder submits an order and returns the provider order ID.
func (c *Connector) SubmitOrder(ctx context.Context, order domain.OrderRequest) (string, error) {
	if err := c.guard(); err != nil {
		return "", err
	}
	return c.client.SubmitOrder(ctx, order)
}

// PollOrder fetches the current state of a submitted order.
func (c *Connector) PollOrder(ctx context.Context, orderID string) (*domain.OrderSnapshot, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	return c.client.PollOrder(ctx, orderID)
}

// DownloadAsset opens a stream for one deliverable.
func (c *Connector) DownloadAsset(ctx context.Context, asset domain.AssetDescriptor) (io.ReadCloser, int64, error) {
	if err := c.guard(); err != nil {
		return nil, 0, err
	}
	return c.client.DownloadAsset(ctx, asset)
}

// Close releases resources. Further calls return ErrProviderClosed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}
