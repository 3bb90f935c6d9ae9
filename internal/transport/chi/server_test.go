package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/usecase/catalogsync"
	healthuc "github.com/modewear/storefront-sync/internal/usecase/health"
	"github.com/modewear/storefront-sync/internal/usecase/webhook"
)

const testSecret = "test-secret"

type stubSyncRunner struct {
	res   catalogsync.Result
	err   error
	calls int
}

func (s *stubSyncRunner) SyncAll(context.Context) (catalogsync.Result, error) {
	s.calls++
	return s.res, s.err
}

type stubProcessor struct {
	out  webhook.Outcome
	last webhook.Event
}

func (s *stubProcessor) Process(_ context.Context, ev webhook.Event) webhook.Outcome {
	s.last = ev
	return s.out
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) InvalidateAll(context.Context) error {
	s.calls++
	return s.err
}

type stubHealth struct{ report healthuc.Report }

func (s *stubHealth) Check(context.Context) healthuc.Report { return s.report }

func newTestRouter(srv *Server) http.Handler {
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func okSyncResult() catalogsync.Result {
	return catalogsync.Result{
		Synced:  map[string]int{"en": 2, "tr": 2},
		Total:   4,
		Indexes: map[string]string{"en": "products_en", "tr": "products_tr"},
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestSyncPostRequiresSecret(t *testing.T) {
	runner := &stubSyncRunner{res: okSyncResult()}
	srv := NewServer(runner, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	tests := []struct {
		name       string
		secret     string
		wantStatus int
	}{
		{name: "missing secret", secret: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", secret: "nope", wantStatus: http.StatusUnauthorized},
		{name: "valid secret", secret: testSecret, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
			if tt.secret != "" {
				req.Header.Set(SecretHeader, tt.secret)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if runner.calls != 1 {
		t.Errorf("sync ran %d times, want 1 (authorized request only)", runner.calls)
	}
}

func TestSyncPostResponseShape(t *testing.T) {
	srv := NewServer(&stubSyncRunner{res: okSyncResult()}, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	synced, ok := body["synced"].(map[string]any)
	if !ok {
		t.Fatalf("synced = %v", body["synced"])
	}
	if synced["en"] != float64(2) || synced["tr"] != float64(2) || synced["total"] != float64(4) {
		t.Errorf("synced = %v, want en:2 tr:2 total:4", synced)
	}
	if body["timestamp"] == "" {
		t.Error("missing timestamp")
	}
}

func TestSyncGetBearerAuth(t *testing.T) {
	runner := &stubSyncRunner{res: okSyncResult()}
	srv := NewServer(runner, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "raw secret without scheme", header: testSecret, wantStatus: http.StatusUnauthorized},
		{name: "bearer secret", header: "Bearer " + testSecret, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sync", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestSyncErrorResponse(t *testing.T) {
	runner := &stubSyncRunner{err: errors.New("upstream down")}
	srv := NewServer(runner, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "upstream down" {
		t.Errorf("error = %v", body["error"])
	}
}

// Missing upstream credentials surface as a configuration error at request
// time, not at startup.
func TestSyncUnconfigured(t *testing.T) {
	srv := NewServer(nil, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "configuration") {
		t.Errorf("message = %q, want configuration error", msg)
	}
}

func TestSyncMissingSecretConfig(t *testing.T) {
	runner := &stubSyncRunner{res: okSyncResult()}
	srv := NewServer(runner, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, "", zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.Header.Set(SecretHeader, "anything")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when secret unset", rec.Code)
	}
	if runner.calls != 0 {
		t.Error("sync ran despite missing secret config")
	}
}

func TestWebhookSecretCheckedBeforeBody(t *testing.T) {
	proc := &stubProcessor{}
	srv := NewServer(&stubSyncRunner{}, proc, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	// Malformed body with a bad secret: 401 wins and nothing is processed.
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/contentful", strings.NewReader("{not json"))
	req.Header.Set(SecretHeader, "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if proc.last.EntityID != "" {
		t.Error("unauthorized delivery reached the processor")
	}
}

func TestWebhookDelivery(t *testing.T) {
	proc := &stubProcessor{out: webhook.Outcome{
		ContentType: "product",
		EntityID:    "prod-1",
		Actions:     []string{webhook.ActionRevalidated, webhook.ActionSyncTriggered},
	}}
	srv := NewServer(&stubSyncRunner{}, proc, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	payload := `{"sys":{"type":"Entry","id":"prod-1","contentType":{"sys":{"id":"product"}}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/contentful", strings.NewReader(payload))
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if proc.last.EntityID != "prod-1" || !proc.last.IsEntry || string(proc.last.ContentType) != "product" {
		t.Errorf("decoded event = %+v", proc.last)
	}

	body := decodeBody(t, rec)
	if body["success"] != true || body["entryId"] != "prod-1" {
		t.Errorf("body = %v", body)
	}
	actions, _ := body["actions"].([]any)
	if len(actions) != 2 || actions[1] != webhook.ActionSyncTriggered {
		t.Errorf("actions = %v", actions)
	}
}

func TestWebhookAssetDelivery(t *testing.T) {
	proc := &stubProcessor{out: webhook.Outcome{
		ContentType: "asset",
		EntityID:    "asset-1",
		Actions:     []string{webhook.ActionRevalidated},
	}}
	srv := NewServer(&stubSyncRunner{}, proc, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	payload := `{"sys":{"type":"Asset","id":"asset-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/contentful", strings.NewReader(payload))
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if proc.last.IsEntry {
		t.Error("asset decoded as entry")
	}
	if proc.last.ContentType != "" {
		t.Errorf("asset carried content type %q", proc.last.ContentType)
	}
}

func TestWebhookMalformedBody(t *testing.T) {
	srv := NewServer(&stubSyncRunner{}, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/contentful", strings.NewReader("{not json"))
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookProbe(t *testing.T) {
	srv := NewServer(&stubSyncRunner{}, &stubProcessor{}, &stubInvalidator{}, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/contentful", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestRevalidate(t *testing.T) {
	cache := &stubInvalidator{}
	srv := NewServer(&stubSyncRunner{}, &stubProcessor{}, cache, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", nil)
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cache.calls != 1 {
		t.Errorf("invalidator calls = %d, want 1", cache.calls)
	}
}

func TestRevalidateFailure(t *testing.T) {
	cache := &stubInvalidator{err: errors.New("cache down")}
	srv := NewServer(&stubSyncRunner{}, &stubProcessor{}, cache, &stubHealth{}, testSecret, zap.NewNop())
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", nil)
	req.Header.Set(SecretHeader, testSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHealthStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		report     healthuc.Report
		wantStatus int
	}{
		{
			name: "healthy",
			report: healthuc.Report{
				Status: healthuc.Healthy,
				Checks: map[string]healthuc.CheckResult{"cache": healthuc.CheckOK},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "degraded",
			report: healthuc.Report{
				Status: healthuc.Degraded,
				Checks: map[string]healthuc.CheckResult{"cache": healthuc.CheckError},
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(&stubSyncRunner{}, &stubProcessor{}, &stubInvalidator{}, &stubHealth{report: tt.report}, testSecret, zap.NewNop())
			router := newTestRouter(srv)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
