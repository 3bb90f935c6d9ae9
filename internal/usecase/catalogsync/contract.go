package catalogsync

import (
	"context"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
	"github.com/modewear/storefront-sync/internal/domain/record"
)

// ContentSource lists every entry of a content type in one CMS locale,
// paging through the full result set with linked references resolved.
type ContentSource interface {
	FetchAll(ctx context.Context, contentType, cmsLocale string) ([]catalog.Entry, error)
}

// IndexWriter replaces one locale index's full record set and (re)applies its
// search configuration. Returns the number of records written.
type IndexWriter interface {
	Write(ctx context.Context, indexName string, records []record.Record) (int, error)
}
