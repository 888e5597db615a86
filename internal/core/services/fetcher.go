package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/logger"
)

// AssetFetcher downloads order deliverables into the destination store.
// Fetches are idempotent: an asset whose complete copy is already
// present is skipped, so re-running a retrieval neither re-downloads
// nor clobbers existing files.
type AssetFetcher struct {
	provider driven.ImageryProvider
	clock    driven.Clock

	// jitter perturbs retry delays so parallel workers do not retry
	// in lockstep. Tests replace it with identity.
	jitter func(time.Duration) time.Duration
}

// NewAssetFetcher creates a fetcher. A nil jitter takes the default
// 50-100% spread.
func NewAssetFetcher(provider driven.ImageryProvider, clock driven.Clock, jitter func(time.Duration) time.Duration) *AssetFetcher {
	if jitter == nil {
		jitter = defaultJitter
	}
	return &AssetFetcher{
		provider: provider,
		clock:    clock,
		jitter:   jitter,
	}
}

// Fetch downloads one asset into the store. Transient failures retry
// with jittered exponential backoff; a checksum mismatch is retried
// exactly once before the asset is abandoned as corrupt. The store
// write is atomic, so a failed or cancelled fetch never leaves a
// partial file under the asset's final name.
func (f *AssetFetcher) Fetch(ctx context.Context, store driven.AssetStore, asset domain.AssetDescriptor) (domain.FetchOutcome, error) {
	key := asset.Filename()

	if f.alreadyPresent(ctx, store, asset, key) {
		logger.Debug("Skipping %s: complete copy already in destination", key)
		return domain.FetchSkippedExisting, nil
	}

	attempt := 0
	checksumRetried := false
	for {
		err := f.downloadOnce(ctx, store, asset, key)
		if err == nil {
			logger.Debug("Downloaded %s", key)
			return domain.FetchDownloaded, nil
		}

		if errors.Is(err, domain.ErrCorruptDownload) {
			if checksumRetried {
				return "", fmt.Errorf("fetch %s: %w", key, err)
			}
			checksumRetried = true
			logger.Warn("Checksum mismatch on %s, retrying once", key)
			continue
		}

		attempt++
		if attempt >= fetchRetryAttempts || !driven.IsRetryable(err) {
			return "", fmt.Errorf("fetch %s: %w", key, err)
		}

		delay := f.jitter(backoffDelay(attempt, fetchBackoffBase, fetchBackoffCap))
		logger.Debug("Download of %s failed (attempt %d/%d), retrying in %s: %v",
			key, attempt, fetchRetryAttempts, delay, err)
		if sleepErr := sleep(ctx, f.clock, delay); sleepErr != nil {
			return "", sleepErr
		}
	}
}

// alreadyPresent reports whether the destination already holds a copy
// consistent with the asset: same size when the provider reported one,
// same checksum when both sides have one.
func (f *AssetFetcher) alreadyPresent(ctx context.Context, store driven.AssetStore, asset domain.AssetDescriptor, key string) bool {
	info, err := store.Stat(ctx, key)
	if err != nil {
		return false
	}
	if asset.Size > 0 && info.Size != asset.Size {
		return false
	}
	if asset.Checksum != "" && info.MD5 != "" && !strings.EqualFold(asset.Checksum, info.MD5) {
		return false
	}
	return true
}

// downloadOnce streams the asset body into the store. Verification is
// delegated to the store write: when the provider reported a checksum,
// a mismatching body fails the write without committing the object.
func (f *AssetFetcher) downloadOnce(ctx context.Context, store driven.AssetStore, asset domain.AssetDescriptor, key string) error {
	body, _, err := f.provider.DownloadAsset(ctx, asset)
	if err != nil {
		return fmt.Errorf("open download: %w", err)
	}
	defer body.Close()

	opts := driven.WriteOptions{ContentMD5: asset.Checksum}
	if err := store.Write(ctx, key, body, opts); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	// Drain any trailing bytes so HTTP connections can be reused.
	_, _ = io.Copy(io.Discard, body)
	return nil
}
