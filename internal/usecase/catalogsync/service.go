// Package catalogsync orchestrates the per-locale fetch-transform-write
// pipeline that mirrors the product catalog into the search index.
package catalogsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/domain/locale"
	"github.com/modewear/storefront-sync/internal/domain/record"
	"github.com/modewear/storefront-sync/internal/metrics"
)

// Result aggregates one full sync run across all supported locales.
type Result struct {
	Synced  map[string]int    // records written per locale code
	Total   int               // sum across locales
	Indexes map[string]string // locale code -> index name touched
}

// Service runs the sync pipeline. Locales are processed sequentially: both
// upstreams are rate-limited, and sequential execution bounds peak load to one
// locale's worth of requests at a time.
type Service struct {
	source      ContentSource
	writer      IndexWriter
	locales     []locale.Locale
	contentType string
	indexPrefix string
	logger      *zap.Logger

	// Serializes concurrently triggered runs in this process (webhook floods).
	// Cross-process overlap remains last-write-wins per record key.
	mu sync.Mutex
}

// New creates a sync service with the default locale pair and naming.
func New(source ContentSource, writer IndexWriter, logger *zap.Logger) *Service {
	return &Service{
		source:      source,
		writer:      writer,
		locales:     locale.DefaultPair(),
		contentType: "product",
		indexPrefix: "products",
		logger:      logger,
	}
}

// WithLocales overrides the supported locale set. Order is the sync order.
func (s *Service) WithLocales(locales []locale.Locale) *Service {
	if len(locales) > 0 {
		s.locales = locales
	}
	return s
}

// WithContentType overrides the synced content type tag.
func (s *Service) WithContentType(ct string) *Service {
	if ct != "" {
		s.contentType = ct
	}
	return s
}

// WithIndexPrefix overrides the index naming prefix.
func (s *Service) WithIndexPrefix(prefix string) *Service {
	if prefix != "" {
		s.indexPrefix = prefix
	}
	return s
}

// SyncAll runs the pipeline for every supported locale and aggregates the
// counts. The first locale failure aborts the whole run; there is no
// partial-success continuation across locales.
func (s *Service) SyncAll(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res := Result{
		Synced:  make(map[string]int, len(s.locales)),
		Indexes: make(map[string]string, len(s.locales)),
	}

	for _, loc := range s.locales {
		count, err := s.syncLocale(ctx, loc)
		if err != nil {
			metrics.SyncRunsTotal.WithLabelValues("error").Inc()
			return Result{}, fmt.Errorf("sync locale %s: %w", loc.Code, err)
		}
		res.Synced[loc.Code] = count
		res.Indexes[loc.Code] = locale.IndexName(s.indexPrefix, loc.Code)
		res.Total += count
	}

	metrics.SyncRunsTotal.WithLabelValues("success").Inc()
	metrics.SyncRunDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("catalog sync completed",
		zap.Int("total", res.Total),
		zap.Any("synced", res.Synced),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// syncLocale fetches, transforms, and writes one locale's full record batch.
func (s *Service) syncLocale(ctx context.Context, loc locale.Locale) (int, error) {
	entries, err := s.source.FetchAll(ctx, s.contentType, loc.CMS)
	if err != nil {
		return 0, fmt.Errorf("fetch entries: %w", err)
	}

	records := make([]record.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, record.FromEntry(e, loc.Code))
	}

	indexName := locale.IndexName(s.indexPrefix, loc.Code)
	count, err := s.writer.Write(ctx, indexName, records)
	if err != nil {
		return 0, fmt.Errorf("write index %s: %w", indexName, err)
	}

	metrics.SyncRecordsTotal.WithLabelValues(loc.Code).Add(float64(count))
	s.logger.Debug("locale synced",
		zap.String("locale", loc.Code),
		zap.String("index", indexName),
		zap.Int("records", count),
	)
	return count, nil
}
