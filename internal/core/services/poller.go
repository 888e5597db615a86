package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/logger"
)

// OrderResult is the outcome of submitting and waiting on one order.
// Failures are per-scene; an order that timed out or failed outright
// reports every one of its scenes failed and carries no assets.
type OrderResult struct {
	// Order is the request as submitted, after any no-access scenes
	// were dropped.
	Order domain.OrderRequest

	// OrderID is the provider-assigned ID, empty when submission
	// never succeeded.
	OrderID string

	// Status is the final observed provider status, empty when the
	// order never reached the provider.
	Status domain.OrderStatus

	// Assets are the ready deliverables, scene-tagged where the
	// delivery name identifies one.
	Assets []domain.AssetDescriptor

	// Failed lists scenes this order could not deliver.
	Failed []domain.SceneFailure
}

// OrderPoller submits orders and drives each through the provider's
// fulfillment state machine: submitted, queued, running, then a
// terminal success, partial, failed or cancelled. Poll intervals back
// off exponentially under a per-order wait budget.
type OrderPoller struct {
	provider driven.ImageryProvider
	clock    driven.Clock
	wait     time.Duration
}

// NewOrderPoller creates a poller. wait bounds how long one order may
// take to reach a terminal state; zero means DefaultOrderWait.
func NewOrderPoller(provider driven.ImageryProvider, clock driven.Clock, wait time.Duration) *OrderPoller {
	if wait <= 0 {
		wait = DefaultOrderWait
	}
	return &OrderPoller{
		provider: provider,
		clock:    clock,
		wait:     wait,
	}
}

// Run submits one order and polls until it reaches a terminal state,
// the wait budget runs out, or ctx is cancelled. Orders run
// independently; errors never escape as Go errors, they land in the
// result's Failed list so one bad order cannot stall its siblings.
func (p *OrderPoller) Run(ctx context.Context, order domain.OrderRequest) OrderResult {
	result := OrderResult{Order: order}

	orderID, submitted := p.submit(ctx, &result)
	if !submitted {
		return result
	}
	result.OrderID = orderID

	p.poll(ctx, orderID, &result)
	return result
}

// submit pushes the order to the provider with retry. A rejection that
// names inaccessible scenes drops exactly those scenes and resubmits
// the remainder once. Returns the provider order ID and whether
// submission succeeded; on failure every scene is recorded failed.
func (p *OrderPoller) submit(ctx context.Context, result *OrderResult) (string, bool) {
	order := &result.Order
	resubmitted := false

	for attempt := 1; attempt <= submitRetryAttempts; {
		orderID, err := p.provider.SubmitOrder(ctx, *order)
		if err == nil {
			logger.Info("Order %s submitted as %s (%d scenes)", order.LocalID, orderID, len(order.SceneIDs))
			return orderID, true
		}

		if ids, ok := driven.NoAccessScenes(err); ok && !resubmitted {
			resubmitted = true
			for _, id := range ids {
				result.Failed = append(result.Failed, domain.SceneFailure{
					SceneID: id,
					Stage:   domain.StageSubmit,
					Reason:  "no access to assets",
				})
			}
			order.SceneIDs = without(order.SceneIDs, ids)
			logger.Warn("Order %s rejected for %d inaccessible scenes, resubmitting %d",
				order.LocalID, len(ids), len(order.SceneIDs))
			if len(order.SceneIDs) == 0 {
				return "", false
			}
			continue
		}

		if !driven.IsRetryable(err) || attempt == submitRetryAttempts {
			p.failAll(result, domain.StageSubmit, fmt.Sprintf("submission failed: %v", err))
			return "", false
		}

		delay := backoffDelay(attempt, submitBackoffBase, submitBackoffCap)
		logger.Debug("Order %s submission failed (attempt %d/%d), retrying in %s: %v",
			order.LocalID, attempt, submitRetryAttempts, delay, err)
		if sleepErr := sleep(ctx, p.clock, delay); sleepErr != nil {
			p.failAll(result, domain.StageSubmit, fmt.Sprintf("cancelled: %v", sleepErr))
			return "", false
		}
		attempt++
	}
	return "", false
}

// poll watches the submitted order until terminal or out of budget.
func (p *OrderPoller) poll(ctx context.Context, orderID string, result *OrderResult) {
	deadline := p.clock.Now().Add(p.wait)
	delay := pollBackoffBase

	for {
		snapshot, err := p.provider.PollOrder(ctx, orderID)
		switch {
		case err == nil && snapshot.Status.Terminal():
			result.Status = snapshot.Status
			p.settle(snapshot, result)
			return

		case err == nil:
			logger.Debug("Order %s is %s", orderID, snapshot.Status)

		case !driven.IsRetryable(err):
			p.failAll(result, domain.StagePoll, fmt.Sprintf("poll failed: %v", err))
			return

		default:
			logger.Debug("Order %s poll failed, will retry: %v", orderID, err)
		}

		if p.clock.Now().Add(delay).After(deadline) {
			p.failAll(result, domain.StagePoll,
				fmt.Sprintf("%v after %s", domain.ErrOrderTimeout, p.wait))
			return
		}
		if sleepErr := sleep(ctx, p.clock, delay); sleepErr != nil {
			p.failAll(result, domain.StagePoll, fmt.Sprintf("cancelled: %v", sleepErr))
			return
		}
		delay *= 2
		if delay > pollBackoffCap {
			delay = pollBackoffCap
		}
	}
}

// settle maps a terminal snapshot onto the result: ready deliverables
// are kept and scene-tagged, scenes with no deliverable are failed.
// Partial fulfillment is a normal outcome, so the ready subset is
// downloaded and only the missing scenes are reported failed.
func (p *OrderPoller) settle(snapshot *domain.OrderSnapshot, result *OrderResult) {
	if !snapshot.Status.Delivered() {
		reason := fmt.Sprintf("order %s", snapshot.Status)
		if snapshot.Message != "" {
			reason = fmt.Sprintf("%s: %s", reason, snapshot.Message)
		}
		p.failAll(result, domain.StagePoll, reason)
		return
	}

	delivered := make(map[string]bool, len(result.Order.SceneIDs))
	for _, asset := range snapshot.Assets {
		if !asset.Deliverable() {
			continue
		}
		asset.SceneID = matchScene(asset, result.Order.SceneIDs)
		if asset.SceneID != "" {
			delivered[asset.SceneID] = true
		}
		result.Assets = append(result.Assets, asset)
	}

	for _, id := range result.Order.SceneIDs {
		if !delivered[id] {
			result.Failed = append(result.Failed, domain.SceneFailure{
				SceneID: id,
				Stage:   domain.StagePoll,
				Reason:  fmt.Sprintf("no deliverables in %s order", snapshot.Status),
			})
		}
	}
}

// failAll records every remaining scene of the order as failed.
func (p *OrderPoller) failAll(result *OrderResult, stage domain.Stage, reason string) {
	logger.Warn("Order %s: %s", result.Order.LocalID, reason)
	for _, id := range result.Order.SceneIDs {
		result.Failed = append(result.Failed, domain.SceneFailure{
			SceneID: id,
			Stage:   stage,
			Reason:  reason,
		})
	}
}

// matchScene tags an asset with the ordered scene its delivery name
// embeds. Order-level files like manifests match no scene.
func matchScene(asset domain.AssetDescriptor, sceneIDs []string) string {
	if asset.SceneID != "" {
		return asset.SceneID
	}
	name := asset.Name
	for _, id := range sceneIDs {
		if strings.Contains(name, id) {
			return id
		}
	}
	return ""
}

// without returns ids minus the given removals, preserving order.
func without(ids, remove []string) []string {
	drop := make(map[string]struct{}, len(remove))
	for _, id := range remove {
		drop[id] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, gone := drop[id]; !gone {
			out = append(out, id)
		}
	}
	return out
}
