// Package algolia implements the index writer over the official Algolia v3
// client: settings first, then an atomic replace of the full object set.
package algolia

import (
	"context"
	"fmt"
	"time"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/domain/record"
	"github.com/modewear/storefront-sync/internal/metrics"
)

// Writer pushes full record batches into locale-scoped indexes.
type Writer struct {
	client   *search.Client
	settings record.IndexSettings
	logger   *zap.Logger
}

// Config holds the search index credentials and declarative settings.
type Config struct {
	AppID    string
	AdminKey string
	Settings record.IndexSettings
	Logger   *zap.Logger
}

// NewWriter creates an index writer.
func NewWriter(cfg Config) *Writer {
	w := &Writer{
		client:   search.NewClient(cfg.AppID, cfg.AdminKey),
		settings: cfg.Settings,
		logger:   cfg.Logger,
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// NewWriterWithClient wraps a prebuilt client (tests).
func NewWriterWithClient(client *search.Client, settings record.IndexSettings, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{client: client, settings: settings, logger: logger}
}

// Write applies the index configuration and then replaces the index's full
// object set with records, keyed by each record's declared objectID. Records
// without a recognized key are rejected by the client rather than assigned a
// generated one, which would orphan them on the next run.
//
// Settings go first so the batch lands under the current facet/ranking
// schema. The replace is atomic (temporary index + move), so entries removed
// from the CMS since the previous run do not linger in the index.
func (w *Writer) Write(ctx context.Context, indexName string, records []record.Record) (int, error) {
	index := w.client.InitIndex(indexName)
	start := time.Now()

	if _, err := index.SetSettings(toSettings(w.settings), ctx); err != nil {
		metrics.IndexWritesTotal.WithLabelValues(indexName, "error").Inc()
		return 0, fmt.Errorf("set settings on %s: %w", indexName, err)
	}

	if _, err := index.ReplaceAllObjects(records, ctx, opt.AutoGenerateObjectIDIfNotExist(false)); err != nil {
		metrics.IndexWritesTotal.WithLabelValues(indexName, "error").Inc()
		return 0, fmt.Errorf("replace objects in %s: %w", indexName, err)
	}

	metrics.IndexWritesTotal.WithLabelValues(indexName, "success").Inc()
	w.logger.Debug("index written",
		zap.String("index", indexName),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)),
	)
	return len(records), nil
}

// toSettings maps the declarative domain settings onto the client's option
// types. The values are passed through verbatim.
func toSettings(s record.IndexSettings) search.Settings {
	return search.Settings{
		SearchableAttributes:   opt.SearchableAttributes(s.SearchableAttributes...),
		AttributesForFaceting:  opt.AttributesForFaceting(s.AttributesForFaceting...),
		CustomRanking:          opt.CustomRanking(s.CustomRanking...),
		AttributesToHighlight:  opt.AttributesToHighlight(s.AttributesToHighlight...),
		AttributesToSnippet:    opt.AttributesToSnippet(s.AttributesToSnippet...),
		HitsPerPage:            opt.HitsPerPage(s.HitsPerPage),
		MaxValuesPerFacet:      opt.MaxValuesPerFacet(s.MaxValuesPerFacet),
		TypoTolerance:          opt.TypoTolerance(s.TypoTolerance),
		MinWordSizefor1Typo:    opt.MinWordSizefor1Typo(s.MinWordSizeFor1Typo),
		MinWordSizefor2Typos:   opt.MinWordSizefor2Typos(s.MinWordSizeFor2Typos),
		RemoveWordsIfNoResults: opt.RemoveWordsIfNoResults(s.RemoveWordsIfNoResults),
	}
}
