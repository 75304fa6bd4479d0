package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// ReportService builds the read-side reports.
type ReportService interface {
	ListingReport(ctx context.Context, slugOrID string, days int) (*domain.ListingReport, error)
	Summary(ctx context.Context, days int) (*domain.SummaryReport, error)
}

// EventRecorder applies a single event synchronously; the legacy track
// endpoint shares the batched path's upsert primitive through it.
type EventRecorder interface {
	ApplyOne(ctx context.Context, listingID, day string, kind domain.EventKind) error
}

// App bundles the handler dependencies.
type App struct {
	Reports  ReportService
	Recorder EventRecorder
	Listings domain.ListingRepository
	Cache    domain.TrafficCache
	Logger   zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
