// Package webhook processes content-change notifications: cache invalidation
// always, search sync only for entries of a sync-triggering content type.
package webhook

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
	"github.com/modewear/storefront-sync/internal/metrics"
)

// Actions reported in the webhook response body. Sync failures surface here
// only; they never fail the webhook response itself.
const (
	ActionRevalidated   = "revalidated"
	ActionSyncTriggered = "search-sync-triggered"
	ActionSyncErrored   = "search-sync-error"

	actionSyncFailedPrefix = "search-sync-failed-" // + HTTP status
)

// Event is the decoded change notification from the CMS webhook.
type Event struct {
	EntityID    string
	IsEntry     bool                // entries carry a content type, assets do not
	ContentType catalog.ContentType // empty for assets
}

// Outcome is the processing result reported back to the webhook caller.
type Outcome struct {
	ContentType string
	EntityID    string
	Actions     []string
}

// Service holds the webhook collaborators. Each delivery is processed
// independently; no state persists between invocations.
type Service struct {
	cache  Invalidator
	syncer SyncTrigger
	logger *zap.Logger
}

// New creates a webhook service. syncer may be nil when sync is not configured.
func New(cache Invalidator, syncer SyncTrigger, logger *zap.Logger) *Service {
	return &Service{cache: cache, syncer: syncer, logger: logger}
}

// Process handles one verified delivery: invalidate, then conditionally sync.
// The returned outcome is always success-shaped; a downstream sync failure is
// recorded as an action, not an error.
func (s *Service) Process(ctx context.Context, ev Event) Outcome {
	out := Outcome{
		EntityID:    ev.EntityID,
		ContentType: string(ev.ContentType),
	}
	if out.ContentType == "" {
		out.ContentType = "asset"
	}

	// Invalidation runs regardless of what changed.
	if err := s.cache.InvalidateAll(ctx); err != nil {
		metrics.CacheInvalidationsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("cache invalidation failed",
			zap.String("entity_id", ev.EntityID),
			zap.Error(err),
		)
	} else {
		metrics.CacheInvalidationsTotal.WithLabelValues("success").Inc()
	}
	out.Actions = append(out.Actions, ActionRevalidated)

	if ev.IsEntry && catalog.TriggersSearchSync(ev.ContentType) && s.syncer != nil {
		out.Actions = append(out.Actions, s.triggerSync(ctx, ev))
	}

	metrics.WebhookEventsTotal.WithLabelValues(out.ContentType, lastAction(out.Actions)).Inc()
	return out
}

// triggerSync invokes the pull-sync contract and maps the result to an action.
func (s *Service) triggerSync(ctx context.Context, ev Event) string {
	status, err := s.syncer.TriggerSync(ctx)
	switch {
	case err != nil:
		s.logger.Error("search sync errored",
			zap.String("entity_id", ev.EntityID),
			zap.Error(err),
		)
		return ActionSyncErrored
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		s.logger.Info("search sync triggered", zap.String("entity_id", ev.EntityID))
		return ActionSyncTriggered
	default:
		s.logger.Error("search sync failed",
			zap.String("entity_id", ev.EntityID),
			zap.Int("status", status),
		)
		return fmt.Sprintf("%s%d", actionSyncFailedPrefix, status)
	}
}

func lastAction(actions []string) string {
	if len(actions) == 0 {
		return "none"
	}
	return actions[len(actions)-1]
}
