// Package chi exposes the trigger surface: the pull-sync endpoint, the
// content-change webhook receiver, explicit revalidation, health, and metrics.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
	"github.com/modewear/storefront-sync/internal/usecase/catalogsync"
	healthuc "github.com/modewear/storefront-sync/internal/usecase/health"
	"github.com/modewear/storefront-sync/internal/usecase/webhook"
)

// SecretHeader carries the shared secret on sync and webhook requests.
const SecretHeader = "X-Webhook-Secret"

// SyncRunner runs one full catalog sync.
type SyncRunner interface {
	SyncAll(ctx context.Context) (catalogsync.Result, error)
}

// WebhookProcessor handles one verified content-change delivery.
type WebhookProcessor interface {
	Process(ctx context.Context, ev webhook.Event) webhook.Outcome
}

// Invalidator flushes the storefront page cache site-wide.
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server wires the trigger surface handlers. sync is nil when upstream
// credentials are not configured; affected routes then answer with a
// configuration error before any external call.
type Server struct {
	sync     SyncRunner
	webhooks WebhookProcessor
	cache    Invalidator
	health   HealthChecker
	secret   string
	logger   *zap.Logger
}

// NewServer creates the trigger surface server.
func NewServer(
	sync SyncRunner,
	webhooks WebhookProcessor,
	cache Invalidator,
	health HealthChecker,
	secret string,
	logger *zap.Logger,
) *Server {
	return &Server{
		sync:     sync,
		webhooks: webhooks,
		cache:    cache,
		health:   health,
		secret:   secret,
		logger:   logger,
	}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/sync", s.handleSyncPost)
	r.Get("/api/sync", s.handleSyncGet)

	r.Post("/api/webhooks/contentful", s.handleWebhook)
	r.Get("/api/webhooks/contentful", s.handleWebhookProbe)

	r.Post("/api/revalidate", s.handleRevalidate)
}

// --- sync ---

type syncResponse struct {
	Success   bool              `json:"success"`
	Synced    map[string]int    `json:"synced"`
	Indexes   map[string]string `json:"indexes"`
	Timestamp string            `json:"timestamp"`
}

// handleSyncPost runs a full sync, authenticated by the shared-secret header.
func (s *Server) handleSyncPost(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" {
		writeError(w, http.StatusInternalServerError, "server configuration error: missing webhook secret")
		return
	}
	if r.Header.Get(SecretHeader) != s.secret {
		writeError(w, http.StatusUnauthorized, "invalid secret")
		return
	}
	s.runSync(w, r)
}

// handleSyncGet lets operators and schedulers trigger a sync with a standard
// bearer header; it re-invokes the POST contract internally.
func (s *Server) handleSyncGet(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" {
		writeError(w, http.StatusInternalServerError, "server configuration error: missing webhook secret")
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+s.secret {
		writeError(w, http.StatusUnauthorized, "unauthorized, use: Authorization: Bearer <webhook secret>")
		return
	}
	s.runSync(w, r)
}

func (s *Server) runSync(w http.ResponseWriter, r *http.Request) {
	// Missing upstream credentials short-circuit before any external call.
	if s.sync == nil {
		writeError(w, http.StatusInternalServerError,
			"server configuration error: missing content source or search index credentials")
		return
	}

	res, err := s.sync.SyncAll(r.Context())
	if err != nil {
		s.logger.Error("catalog sync failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "error syncing to search index",
			"error":   err.Error(),
		})
		return
	}

	synced := make(map[string]int, len(res.Synced)+1)
	for code, n := range res.Synced {
		synced[code] = n
	}
	synced["total"] = res.Total

	writeJSON(w, http.StatusOK, syncResponse{
		Success:   true,
		Synced:    synced,
		Indexes:   res.Indexes,
		Timestamp: timestamp(),
	})
}

// --- webhook ---

// webhookPayload is the CMS change notification body.
type webhookPayload struct {
	Sys struct {
		Type        string `json:"type"` // "Entry" or "Asset"
		ID          string `json:"id"`
		ContentType *struct {
			Sys struct {
				ID string `json:"id"`
			} `json:"sys"`
		} `json:"contentType"`
	} `json:"sys"`
}

type webhookResponse struct {
	Success     bool     `json:"success"`
	ContentType string   `json:"contentType"`
	EntryID     string   `json:"entryId"`
	Actions     []string `json:"actions"`
	Timestamp   string   `json:"timestamp"`
}

// handleWebhook verifies the shared secret before parsing the body, so an
// unauthorized delivery triggers no side effects at all.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" {
		writeError(w, http.StatusInternalServerError, "server configuration error: missing webhook secret")
		return
	}
	if r.Header.Get(SecretHeader) != s.secret {
		writeError(w, http.StatusUnauthorized, "invalid secret")
		return
	}

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	ev := webhook.Event{
		EntityID: payload.Sys.ID,
		IsEntry:  payload.Sys.Type == "Entry",
	}
	if payload.Sys.ContentType != nil {
		ev.ContentType = catalog.ContentType(payload.Sys.ContentType.Sys.ID)
	}

	out := s.webhooks.Process(r.Context(), ev)

	// Invalidation is the webhook's own responsibility; a downstream sync
	// failure is visible only in the actions list.
	writeJSON(w, http.StatusOK, webhookResponse{
		Success:     true,
		ContentType: out.ContentType,
		EntryID:     out.EntityID,
		Actions:     out.Actions,
		Timestamp:   timestamp(),
	})
}

// handleWebhookProbe is a liveness probe with no side effects.
func (s *Server) handleWebhookProbe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"message":  "contentful webhook endpoint is active",
		"features": []string{"revalidation", "search-sync"},
	})
}

// --- revalidate ---

// handleRevalidate invalidates the page cache without a content change.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" {
		writeError(w, http.StatusInternalServerError, "server configuration error: missing webhook secret")
		return
	}
	if r.Header.Get(SecretHeader) != s.secret {
		writeError(w, http.StatusUnauthorized, "invalid secret")
		return
	}

	if err := s.cache.InvalidateAll(r.Context()); err != nil {
		s.logger.Error("cache invalidation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"timestamp": timestamp(),
	})
}

// --- health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
