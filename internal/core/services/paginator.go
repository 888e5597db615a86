package services

import (
	"context"
	"fmt"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/logger"
)

// ScenePaginator streams deduplicated search results from the provider,
// walking pages until exhaustion. Long date windows are split into
// sequential sub-range searches; scene IDs are deduplicated across
// pages and sub-ranges, so overlapping provider pages never produce
// duplicate records downstream.
type ScenePaginator struct {
	provider driven.ImageryProvider
	clock    driven.Clock
}

// NewScenePaginator creates a paginator over the given provider.
func NewScenePaginator(provider driven.ImageryProvider, clock driven.Clock) *ScenePaginator {
	return &ScenePaginator{
		provider: provider,
		clock:    clock,
	}
}

// Search streams every scene matching the query. Scenes from the
// provider's test satellites are dropped. The scene channel closes on
// completion; a terminal failure is sent on the error channel first.
// Per-page transient failures retry with exponential backoff before
// the search is abandoned as unavailable.
func (p *ScenePaginator) Search(ctx context.Context, query driven.SceneQuery) (<-chan domain.SceneRecord, <-chan error) {
	scenes := make(chan domain.SceneRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(scenes)
		defer close(errs)

		seen := make(map[string]struct{})
		for _, window := range query.Window.Split(maxSearchWindowDays) {
			sub := query
			sub.Window = window
			if err := p.searchWindow(ctx, sub, seen, scenes); err != nil {
				errs <- err
				return
			}
		}
	}()

	return scenes, errs
}

// searchWindow walks one sub-range search page by page.
func (p *ScenePaginator) searchWindow(
	ctx context.Context,
	query driven.SceneQuery,
	seen map[string]struct{},
	out chan<- domain.SceneRecord,
) error {
	query.PageToken = ""
	for {
		page, err := p.fetchPage(ctx, query)
		if err != nil {
			return err
		}

		for _, scene := range page.Scenes {
			if _, dup := seen[scene.SceneID]; dup {
				continue
			}
			seen[scene.SceneID] = struct{}{}

			if scene.FromTestSatellite() {
				logger.Debug("Skipping test satellite scene %s", scene.SceneID)
				continue
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- scene:
			}
		}

		if page.NextPageToken == "" {
			return nil
		}
		query.PageToken = page.NextPageToken
	}
}

// fetchPage fetches a single page, retrying transient failures.
func (p *ScenePaginator) fetchPage(ctx context.Context, query driven.SceneQuery) (*driven.ScenePage, error) {
	var lastErr error
	for attempt := 1; attempt <= searchRetryAttempts; attempt++ {
		page, err := p.provider.SearchScenes(ctx, query)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if !driven.IsRetryable(err) {
			return nil, fmt.Errorf("search page: %w", err)
		}
		if attempt == searchRetryAttempts {
			break
		}

		delay := backoffDelay(attempt, searchBackoffBase, searchBackoffCap)
		logger.Debug("Search page failed (attempt %d/%d), retrying in %s: %v",
			attempt, searchRetryAttempts, delay, err)
		if err := sleep(ctx, p.clock, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %d attempts: %w", domain.ErrSearchUnavailable, searchRetryAttempts, lastErr)
}
