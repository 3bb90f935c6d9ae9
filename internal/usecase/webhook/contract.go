package webhook

import "context"

// Invalidator flushes the storefront page cache site-wide.
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

// SyncTrigger invokes the pull-sync endpoint contract. status is the HTTP
// status of the sync response when err is nil.
type SyncTrigger interface {
	TriggerSync(ctx context.Context) (status int, err error)
}
