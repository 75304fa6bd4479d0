package handlers

import (
	"errors"
	"net/http"

	"server/internal/domain"
)

// Traffic serves the cached site-wide edge metrics. Until the first refresh
// lands there is nothing truthful to return, so the handler signals
// unavailability instead of synthesizing zeros.
// GET /v1/traffic
func (a *App) Traffic(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Cache.Load(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			a.error(w, http.StatusServiceUnavailable, "unavailable", "traffic metrics not yet collected")
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: traffic cache read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load traffic metrics")
		return
	}
	a.json(w, http.StatusOK, snap)
}
