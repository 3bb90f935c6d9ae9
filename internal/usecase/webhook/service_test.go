package webhook

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
)

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) InvalidateAll(context.Context) error {
	s.calls++
	return s.err
}

type stubTrigger struct {
	calls  int
	status int
	err    error
}

func (s *stubTrigger) TriggerSync(context.Context) (int, error) {
	s.calls++
	return s.status, s.err
}

func TestProcessProductEntryTriggersSync(t *testing.T) {
	cache := &stubInvalidator{}
	trigger := &stubTrigger{status: http.StatusOK}
	svc := New(cache, trigger, zap.NewNop())

	out := svc.Process(context.Background(), Event{
		EntityID:    "prod-1",
		IsEntry:     true,
		ContentType: catalog.TypeProduct,
	})

	want := []string{ActionRevalidated, ActionSyncTriggered}
	if !reflect.DeepEqual(out.Actions, want) {
		t.Errorf("Actions = %v, want %v", out.Actions, want)
	}
	if cache.calls != 1 {
		t.Errorf("invalidator calls = %d, want 1", cache.calls)
	}
	if trigger.calls != 1 {
		t.Errorf("trigger calls = %d, want 1", trigger.calls)
	}
	if out.ContentType != "product" || out.EntityID != "prod-1" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestProcessNonTriggeringTypesSkipSync(t *testing.T) {
	for _, ct := range []catalog.ContentType{catalog.TypeCategory, catalog.TypeBrand, catalog.TypePage} {
		t.Run(string(ct), func(t *testing.T) {
			cache := &stubInvalidator{}
			trigger := &stubTrigger{status: http.StatusOK}
			svc := New(cache, trigger, zap.NewNop())

			out := svc.Process(context.Background(), Event{
				EntityID:    "e-1",
				IsEntry:     true,
				ContentType: ct,
			})

			if !reflect.DeepEqual(out.Actions, []string{ActionRevalidated}) {
				t.Errorf("Actions = %v, want [revalidated]", out.Actions)
			}
			if trigger.calls != 0 {
				t.Errorf("sync triggered for content type %q", ct)
			}
			if cache.calls != 1 {
				t.Errorf("invalidator calls = %d, want 1", cache.calls)
			}
		})
	}
}

func TestProcessAssetDelivery(t *testing.T) {
	cache := &stubInvalidator{}
	trigger := &stubTrigger{status: http.StatusOK}
	svc := New(cache, trigger, zap.NewNop())

	out := svc.Process(context.Background(), Event{EntityID: "asset-1", IsEntry: false})

	if out.ContentType != "asset" {
		t.Errorf("ContentType = %q, want asset", out.ContentType)
	}
	if !reflect.DeepEqual(out.Actions, []string{ActionRevalidated}) {
		t.Errorf("Actions = %v", out.Actions)
	}
	if trigger.calls != 0 {
		t.Error("asset delivery triggered sync")
	}
}

// A sync rejection is reported as an action carrying the HTTP status; the
// outcome itself stays success-shaped.
func TestProcessSyncFailureStatusInActions(t *testing.T) {
	cache := &stubInvalidator{}
	trigger := &stubTrigger{status: http.StatusUnauthorized}
	svc := New(cache, trigger, zap.NewNop())

	out := svc.Process(context.Background(), Event{
		EntityID:    "prod-1",
		IsEntry:     true,
		ContentType: catalog.TypeProduct,
	})

	want := []string{ActionRevalidated, "search-sync-failed-401"}
	if !reflect.DeepEqual(out.Actions, want) {
		t.Errorf("Actions = %v, want %v", out.Actions, want)
	}
}

func TestProcessSyncTransportError(t *testing.T) {
	cache := &stubInvalidator{}
	trigger := &stubTrigger{err: errors.New("connection refused")}
	svc := New(cache, trigger, zap.NewNop())

	out := svc.Process(context.Background(), Event{
		EntityID:    "prod-1",
		IsEntry:     true,
		ContentType: catalog.TypeProduct,
	})

	want := []string{ActionRevalidated, ActionSyncErrored}
	if !reflect.DeepEqual(out.Actions, want) {
		t.Errorf("Actions = %v, want %v", out.Actions, want)
	}
}

// Invalidation failure is logged and swallowed; the delivery still reports
// revalidated and sync still runs.
func TestProcessInvalidationFailureSoft(t *testing.T) {
	cache := &stubInvalidator{err: errors.New("cache down")}
	trigger := &stubTrigger{status: http.StatusOK}
	svc := New(cache, trigger, zap.NewNop())

	out := svc.Process(context.Background(), Event{
		EntityID:    "prod-1",
		IsEntry:     true,
		ContentType: catalog.TypeProduct,
	})

	want := []string{ActionRevalidated, ActionSyncTriggered}
	if !reflect.DeepEqual(out.Actions, want) {
		t.Errorf("Actions = %v, want %v", out.Actions, want)
	}
}

func TestProcessNilTrigger(t *testing.T) {
	cache := &stubInvalidator{}
	svc := New(cache, nil, zap.NewNop())

	out := svc.Process(context.Background(), Event{
		EntityID:    "prod-1",
		IsEntry:     true,
		ContentType: catalog.TypeProduct,
	})

	if !reflect.DeepEqual(out.Actions, []string{ActionRevalidated}) {
		t.Errorf("Actions = %v, want [revalidated]", out.Actions)
	}
}
