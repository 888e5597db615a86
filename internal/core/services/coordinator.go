package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
	"github.com/orbitalworks/scenefetch/internal/geometry"
	"github.com/orbitalworks/scenefetch/internal/logger"
)

// Ensure RetrievalCoordinator implements the interface.
var _ driving.Retriever = (*RetrievalCoordinator)(nil)

// Default worker pool sizes.
const (
	// DefaultPollWorkers bounds concurrent order submission/polling.
	DefaultPollWorkers = 8

	// DefaultFetchWorkers bounds concurrent asset downloads.
	DefaultFetchWorkers = 4
)

// CoordinatorConfig tunes pipeline concurrency and patience.
// Zero values take defaults.
type CoordinatorConfig struct {
	// PollWorkers bounds concurrent order submission and polling.
	PollWorkers int

	// FetchWorkers bounds concurrent asset downloads.
	FetchWorkers int

	// OrderWait bounds how long one order may take to fulfill.
	OrderWait time.Duration
}

// RetrievalCoordinator runs the retrieval pipeline end to end:
// validate, normalize geometry, search, skip already-delivered scenes,
// assemble orders, submit and poll them concurrently, download ready
// deliverables and aggregate the report. Per-scene, per-order and
// per-asset failures land in the report; only configuration-level
// problems return an error.
type RetrievalCoordinator struct {
	provider driven.ImageryProvider
	opener   driven.StoreOpener
	tokens   driven.TokenProvider
	clock    driven.Clock

	paginator *ScenePaginator
	assembler *OrderAssembler
	poller    *OrderPoller
	fetcher   *AssetFetcher

	pollWorkers  int
	fetchWorkers int

	// Status tracking
	mu     sync.RWMutex
	status domain.RetrievalStatus
}

// NewRetrievalCoordinator creates a coordinator.
// newID generates order correlation IDs (the composition root passes
// uuid.NewString).
func NewRetrievalCoordinator(
	provider driven.ImageryProvider,
	opener driven.StoreOpener,
	tokens driven.TokenProvider,
	clock driven.Clock,
	newID func() string,
	cfg CoordinatorConfig,
) *RetrievalCoordinator {
	if cfg.PollWorkers <= 0 {
		cfg.PollWorkers = DefaultPollWorkers
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = DefaultFetchWorkers
	}

	return &RetrievalCoordinator{
		provider:     provider,
		opener:       opener,
		tokens:       tokens,
		clock:        clock,
		paginator:    NewScenePaginator(provider, clock),
		assembler:    NewOrderAssembler(newID),
		poller:       NewOrderPoller(provider, clock, cfg.OrderWait),
		fetcher:      NewAssetFetcher(provider, clock, nil),
		pollWorkers:  cfg.PollWorkers,
		fetchWorkers: cfg.FetchWorkers,
		status:       domain.RetrievalStatus{Phase: domain.PhaseIdle},
	}
}

// Retrieve executes one retrieval end to end.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (c *RetrievalCoordinator) Retrieve(ctx context.Context, req domain.Request) (*domain.RetrievalReport, error) {
	// 1. Validate the request shape
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Require a credential before touching the provider.
	// The credential itself is injected per call by the provider
	// adapter and never passes through the core.
	if c.tokens == nil || !c.tokens.IsAuthenticated() {
		return nil, domain.ErrAuthRequired
	}

	// 3. Normalize the polygon
	aoi, err := geometry.Normalize(req.AOI)
	if err != nil {
		return nil, err
	}

	// 4. Open the destination store
	store, err := c.opener.OpenStore(ctx, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("open destination: %w", err)
	}
	defer store.Close()

	report := &domain.RetrievalReport{
		SiteName:  req.SiteName,
		Window:    req.Window,
		StartedAt: c.clock.Now(),
	}
	c.resetStatus(domain.PhaseSearching)
	defer c.setPhase(domain.PhaseDone)

	logger.Info("Retrieving %s imagery for %s over %s", req.EffectiveItemType(), req.SiteName, req.Window)

	// 5. Discover scenes
	scenes, err := c.search(ctx, aoi, &req)
	if err != nil {
		return nil, err
	}
	report.ScenesFound = len(scenes)
	logger.Info("Search matched %d scenes", len(scenes))

	// 6. Skip scenes whose imagery is already in the destination
	fresh, skipped, err := c.skipExisting(ctx, store, scenes)
	if err != nil {
		return nil, err
	}
	report.SkippedExisting = append(report.SkippedExisting, skipped...)

	// 7. Nothing left to order?
	if len(fresh) == 0 {
		c.finalize(report)
		return report, nil
	}

	// 8. Assemble orders
	c.setPhase(domain.PhaseOrdering)
	orders := c.assembler.Assemble(&req, aoi, fresh)
	c.setOrdersTotal(len(orders))
	if len(orders) > 0 && orders[0].ClipSimplified {
		report.ClipSimplified = true
		report.ClipNote = fmt.Sprintf("clip simplified from %d to %d vertices",
			orders[0].ClipOriginalVertices, orders[0].Clip.Vertices())
	}

	// 9. Submit and poll orders concurrently
	c.setPhase(domain.PhasePolling)
	results := c.runOrders(ctx, orders)

	var assets []domain.AssetDescriptor
	for _, result := range results {
		report.Orders = append(report.Orders, domain.OrderOutcome{
			LocalID:    result.Order.LocalID,
			OrderID:    result.OrderID,
			Status:     result.Status,
			SceneCount: len(result.Order.SceneIDs),
		})
		report.Failed = append(report.Failed, result.Failed...)
		assets = append(assets, result.Assets...)
	}

	// 10. Download ready deliverables
	c.setPhase(domain.PhaseDownloading)
	c.setAssetsTotal(len(assets))
	c.collectFetches(ctx, store, assets, report)

	// 11. Finalize the report
	c.finalize(report)
	logger.Info("Retrieval finished: %d downloaded, %d skipped, %d failed",
		len(report.Downloaded), len(report.SkippedExisting), len(report.Failed))
	return report, nil
}

// Status returns a point-in-time snapshot of retrieval progress.
func (c *RetrievalCoordinator) Status() domain.RetrievalStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// search consumes the paginator's channels until both close.
func (c *RetrievalCoordinator) search(ctx context.Context, aoi domain.AOI, req *domain.Request) ([]domain.SceneRecord, error) {
	query := driven.SceneQuery{
		AOI:           aoi,
		Window:        req.Window,
		ItemType:      req.EffectiveItemType(),
		MaxCloudCover: req.CloudCover(),
	}

	scenesCh, errsCh := c.paginator.Search(ctx, query)
	var scenes []domain.SceneRecord
	for scenesCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			return nil, fmt.Errorf("search: %w", err)

		case scene, ok := <-scenesCh:
			if !ok {
				scenesCh = nil
				continue
			}
			scenes = append(scenes, scene)
			c.bumpFound()
		}
	}
	return scenes, nil
}

// skipExisting partitions scenes by whether the destination already
// holds imagery naming them. Delivered filenames embed the scene ID, so
// a substring scan over the destination listing is sufficient and
// avoids ordering scenes that would only be skipped at download time.
func (c *RetrievalCoordinator) skipExisting(ctx context.Context, store driven.AssetStore, scenes []domain.SceneRecord) ([]domain.SceneRecord, []string, error) {
	keys, err := store.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list destination: %w", err)
	}
	if len(keys) == 0 {
		return scenes, nil, nil
	}

	var fresh []domain.SceneRecord
	var skipped []string
	for _, scene := range scenes {
		present := false
		for _, key := range keys {
			if strings.Contains(key, scene.SceneID) {
				present = true
				break
			}
		}
		if present {
			skipped = append(skipped, scene.SceneID)
			c.bumpSkipped()
			continue
		}
		fresh = append(fresh, scene)
	}

	if len(skipped) > 0 {
		logger.Info("Skipping %d scenes already in destination", len(skipped))
	}
	return fresh, skipped, nil
}

// runOrders drives every order through the poller, at most pollWorkers
// at a time. Results keep the assembly order so the report is
// deterministic.
func (c *RetrievalCoordinator) runOrders(ctx context.Context, orders []domain.OrderRequest) []OrderResult {
	sem := make(chan struct{}, c.pollWorkers)
	results := make([]OrderResult, len(orders))

	var wg sync.WaitGroup
	for i, order := range orders {
		wg.Add(1)
		go func(i int, order domain.OrderRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = c.poller.Run(ctx, order)
			c.bumpOrdersDone()
		}(i, order)
	}
	wg.Wait()
	return results
}

// fetchResult pairs an asset with its download outcome.
type fetchResult struct {
	asset   domain.AssetDescriptor
	outcome domain.FetchOutcome
	err     error
}

// collectFetches downloads assets through a bounded worker pool and
// folds the outcomes into the report.
func (c *RetrievalCoordinator) collectFetches(ctx context.Context, store driven.AssetStore, assets []domain.AssetDescriptor, report *domain.RetrievalReport) {
	if len(assets) == 0 {
		return
	}

	jobs := make(chan domain.AssetDescriptor)
	resultsCh := make(chan fetchResult)

	var wg sync.WaitGroup
	for w := 0; w < c.fetchWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for asset := range jobs {
				outcome, err := c.fetcher.Fetch(ctx, store, asset)
				resultsCh <- fetchResult{asset: asset, outcome: outcome, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, asset := range assets {
			select {
			case <-ctx.Done():
				return
			case jobs <- asset:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	// Per-scene tallies. A scene counts as downloaded only when none
	// of its assets failed; any failure puts it in the report's
	// failed list instead.
	downloaded := make(map[string]bool)
	skippedAll := make(map[string]bool)
	failed := make(map[string]bool)

	for r := range resultsCh {
		sceneID := r.asset.SceneID
		switch {
		case r.err != nil:
			c.bumpAssetsFailed()
			id := sceneID
			if id == "" {
				id = r.asset.Filename()
			}
			if sceneID != "" {
				failed[sceneID] = true
			}
			report.Failed = append(report.Failed, domain.SceneFailure{
				SceneID: id,
				Stage:   domain.StageDownload,
				Reason:  r.err.Error(),
			})

		case r.outcome == domain.FetchDownloaded:
			c.bumpAssetsDone()
			report.FilesWritten++
			if sceneID != "" {
				downloaded[sceneID] = true
			}

		case r.outcome == domain.FetchSkippedExisting:
			c.bumpAssetsDone()
			if sceneID != "" && !downloaded[sceneID] {
				skippedAll[sceneID] = true
			}
		}
	}

	for sceneID := range downloaded {
		if !failed[sceneID] {
			report.Downloaded = append(report.Downloaded, sceneID)
		}
	}
	for sceneID := range skippedAll {
		if !failed[sceneID] && !downloaded[sceneID] {
			report.SkippedExisting = append(report.SkippedExisting, sceneID)
		}
	}
}

// finalize stamps and sorts the report.
func (c *RetrievalCoordinator) finalize(report *domain.RetrievalReport) {
	report.FinishedAt = c.clock.Now()
	report.Sort()
}

// Status helpers.

func (c *RetrievalCoordinator) resetStatus(phase domain.RetrievalPhase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = domain.RetrievalStatus{Phase: phase}
}

func (c *RetrievalCoordinator) setPhase(phase domain.RetrievalPhase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Phase = phase
}

func (c *RetrievalCoordinator) setOrdersTotal(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.OrdersTotal = n
}

func (c *RetrievalCoordinator) setAssetsTotal(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.AssetsTotal = n
}

func (c *RetrievalCoordinator) bumpFound() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.ScenesFound++
}

func (c *RetrievalCoordinator) bumpSkipped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.ScenesSkipped++
}

func (c *RetrievalCoordinator) bumpOrdersDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.OrdersDone++
}

func (c *RetrievalCoordinator) bumpAssetsDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.AssetsDone++
}

func (c *RetrievalCoordinator) bumpAssetsFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.AssetsFailed++
}
