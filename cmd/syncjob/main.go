// Command syncjob runs one full catalog sync and exits. It is the manual and
// scheduled batch path; deploy pipelines run it after content imports.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/config"
	"github.com/modewear/storefront-sync/internal/domain/locale"
	"github.com/modewear/storefront-sync/internal/domain/record"
	logpkg "github.com/modewear/storefront-sync/internal/logger"
	"github.com/modewear/storefront-sync/internal/metrics"
	"github.com/modewear/storefront-sync/internal/transport/algolia"
	"github.com/modewear/storefront-sync/internal/transport/contentful"
	"github.com/modewear/storefront-sync/internal/usecase/catalogsync"
	"github.com/modewear/storefront-sync/internal/version"
)

func main() {
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalog sync job",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("index_prefix", cfg.Algolia.IndexPrefix),
	)

	if !cfg.Contentful.Configured() || !cfg.Algolia.Configured() {
		logger.Fatal("Missing content source or search index credentials")
	}

	metrics.RegisterSyncMetrics()

	source := contentful.NewClient(contentful.Config{
		SpaceID:      cfg.Contentful.SpaceID,
		AccessToken:  cfg.Contentful.AccessToken,
		Environment:  cfg.Contentful.Environment,
		BaseURL:      cfg.Contentful.BaseURL,
		PageSize:     cfg.Sync.PageSize,
		IncludeDepth: cfg.Sync.IncludeDepth,
		Logger:       logger,
	})
	writer := algolia.NewWriter(algolia.Config{
		AppID:    cfg.Algolia.AppID,
		AdminKey: cfg.Algolia.AdminKey,
		Settings: record.DefaultIndexSettings(),
		Logger:   logger,
	})

	locales := make([]locale.Locale, 0, len(cfg.Sync.Locales))
	for _, l := range cfg.Sync.Locales {
		locales = append(locales, locale.Locale{Code: l.Code, CMS: l.CMS})
	}

	svc := catalogsync.New(source, writer, logger).
		WithLocales(locales).
		WithContentType(cfg.Sync.ContentType).
		WithIndexPrefix(cfg.Algolia.IndexPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	res, err := svc.SyncAll(ctx)
	if err != nil {
		logger.Fatal("Catalog sync failed", zap.Error(err))
	}

	logger.Info("Catalog sync complete",
		zap.Int("total", res.Total),
		zap.Any("synced", res.Synced),
		zap.Any("indexes", res.Indexes),
		zap.Duration("duration", time.Since(start)),
	)
}
