package handlers

import (
	"net/http"
	"time"
)

// Health is a liveness probe. It reports without touching Postgres or Redis
// so a degraded dependency never flaps the process out of the load balancer.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
