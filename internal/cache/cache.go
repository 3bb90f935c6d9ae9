// Package cache holds the storefront page cache the webhook invalidates.
// The real backend lives in the redis subpackage; Noop stands in when no
// cache is configured.
package cache

import "context"

// Noop satisfies the invalidator contract without a backend.
type Noop struct{}

// InvalidateAll is a no-op.
func (Noop) InvalidateAll(context.Context) error { return nil }
