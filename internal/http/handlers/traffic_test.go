package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type fakeTrafficCache struct {
	snap *domain.TrafficSnapshot
	err  error
}

func (f *fakeTrafficCache) Store(context.Context, domain.TrafficSnapshot) error { return nil }

func (f *fakeTrafficCache) Load(context.Context) (*domain.TrafficSnapshot, error) {
	return f.snap, f.err
}

func TestTrafficServesCachedSnapshot(t *testing.T) {
	app := &App{
		Cache: &fakeTrafficCache{snap: &domain.TrafficSnapshot{
			Requests:       12000,
			UniqueVisitors: 3400,
			Bytes:          9_000_000,
			CacheHitRate:   0.84,
			FetchedAt:      time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
		}},
		Logger: zerolog.Nop(),
	}

	rr := httptest.NewRecorder()
	app.Traffic(rr, httptest.NewRequest(http.MethodGet, "/v1/traffic", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var payload domain.TrafficSnapshot
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Requests != 12000 || payload.CacheHitRate != 0.84 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestTrafficUnpopulatedCellIs503(t *testing.T) {
	app := &App{Cache: &fakeTrafficCache{err: domain.ErrUnavailable}, Logger: zerolog.Nop()}

	rr := httptest.NewRecorder()
	app.Traffic(rr, httptest.NewRequest(http.MethodGet, "/v1/traffic", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 (no synthesized zeros)", rr.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload["error"] != "unavailable" {
		t.Fatalf("error = %q, want unavailable", payload["error"])
	}
}
