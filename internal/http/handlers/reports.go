package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// ListingStats serves the per-listing report.
// GET /v1/listings/{slug}/stats?days=N
func (a *App) ListingStats(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	report, err := a.Reports.ListingReport(r.Context(), slug, daysParam(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "unknown listing")
			return
		}
		a.Logger.Error().Err(err).Str("slug", slug).Msg("handlers: listing report failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load report")
		return
	}
	a.json(w, http.StatusOK, report)
}

// StatsSummary serves the cross-listing ranking.
// GET /v1/stats/summary?days=N
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Reports.Summary(r.Context(), daysParam(r))
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: summary report failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load summary")
		return
	}
	a.json(w, http.StatusOK, summary)
}

// daysParam parses the optional days query parameter. Malformed values yield
// zero and the report service substitutes the default range.
func daysParam(r *http.Request) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return days
}
