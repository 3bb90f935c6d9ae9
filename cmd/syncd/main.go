package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/cache"
	cacheRedis "github.com/modewear/storefront-sync/internal/cache/redis"
	"github.com/modewear/storefront-sync/internal/config"
	"github.com/modewear/storefront-sync/internal/domain/locale"
	"github.com/modewear/storefront-sync/internal/domain/record"
	logpkg "github.com/modewear/storefront-sync/internal/logger"
	"github.com/modewear/storefront-sync/internal/metrics"
	"github.com/modewear/storefront-sync/internal/transport/algolia"
	chiTransport "github.com/modewear/storefront-sync/internal/transport/chi"
	"github.com/modewear/storefront-sync/internal/transport/contentful"
	"github.com/modewear/storefront-sync/internal/transport/syncclient"
	"github.com/modewear/storefront-sync/internal/usecase/catalogsync"
	healthuc "github.com/modewear/storefront-sync/internal/usecase/health"
	webhookuc "github.com/modewear/storefront-sync/internal/usecase/webhook"
	"github.com/modewear/storefront-sync/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting storefront sync server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_prefix", cfg.Algolia.IndexPrefix),
	)

	metrics.RegisterSyncMetrics()

	// Page cache is optional; without a backend invalidation degrades to a no-op.
	var invalidator chiTransport.Invalidator = cache.Noop{}
	var cachePinger healthuc.CachePinger
	if len(cfg.Cache.Addrs) > 0 {
		redisCache, err := cacheRedis.New(cacheRedis.Config{
			Addrs:     cfg.Cache.Addrs,
			Password:  cfg.Cache.Password,
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			logger.Fatal("Failed to create cache client", zap.Error(err))
		}
		defer redisCache.Close()

		ctx := context.Background()
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := redisCache.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to page cache", zap.Strings("addrs", cfg.Cache.Addrs))

		invalidator = redisCache
		cachePinger = redisCache
	} else {
		logger.Warn("No cache backend configured, invalidation is a no-op")
	}

	// Sync pipeline. Built only when both upstreams are
	// configured; otherwise the trigger surface answers with a config error.
	var syncSvc *catalogsync.Service
	if cfg.Contentful.Configured() && cfg.Algolia.Configured() {
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
		syncSvc = catalogsync.New(source, writer, logger).
			WithLocales(localesFromConfig(cfg.Sync.Locales)).
			WithContentType(cfg.Sync.ContentType).
			WithIndexPrefix(cfg.Algolia.IndexPrefix)
	} else {
		logger.Warn("Sync disabled: missing content source or search index credentials")
	}

	// The webhook triggers sync through the pull endpoint's own contract.
	var syncTrigger webhookuc.SyncTrigger
	if syncSvc != nil {
		syncTrigger = syncclient.New(cfg.HTTP.BaseURL+"/api/sync", cfg.Auth.WebhookSecret)
	}
	webhookSvc := webhookuc.New(invalidator, syncTrigger, logger)

	healthSvc := healthuc.New(cachePinger, syncSvc != nil)

	var syncRunner chiTransport.SyncRunner
	if syncSvc != nil {
		syncRunner = syncSvc
	}
	server := chiTransport.NewServer(
		syncRunner, webhookSvc, invalidator, healthSvc, cfg.Auth.WebhookSecret, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httprate.LimitByIP(cfg.HTTP.RateLimitPerMin, 1*time.Minute)) // webhook-flood guard
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func localesFromConfig(list []config.LocaleConfig) []locale.Locale {
	out := make([]locale.Locale, 0, len(list))
	for _, l := range list {
		out = append(out, locale.Locale{Code: l.Code, CMS: l.CMS})
	}
	return out
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
