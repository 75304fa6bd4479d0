package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"server/internal/domain"
	"server/internal/middleware"
)

type trackRequest struct {
	Slug string `json:"slug"`
	Type string `json:"type"`
}

// Track is the legacy synchronous ingestion path: one event, one counter,
// +1 for today, through the same additive upsert the batch pipeline uses.
// POST /v1/track
func (a *App) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Slug == "" || req.Type == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "slug and type are required")
		return
	}
	kind, ok := domain.ParseEventKind(req.Type)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown event type")
		return
	}

	listing, err := a.Listings.BySlugOrID(r.Context(), req.Slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "unknown listing")
			return
		}
		a.Logger.Error().Err(err).Str("slug", req.Slug).Msg("handlers: track lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record event")
		return
	}

	day := time.Now().UTC().Format("2006-01-02")
	if err := a.Recorder.ApplyOne(r.Context(), listing.ID, day, kind); err != nil {
		a.Logger.Error().Err(err).Str("slug", req.Slug).Msg("handlers: track merge failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record event")
		return
	}

	a.Logger.Info().
		Str("listing_id", listing.ID).
		Str("type", string(kind)).
		Str("country", middleware.CountryFromContext(r.Context())).
		Msg("handlers: event tracked")
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
