package health

import "context"

// CachePinger checks page cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
