package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options carries the router's cross-cutting configuration.
type Options struct {
	Logger          zerolog.Logger
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS())

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/traffic", app.Traffic)

	r.Route("/v1/listings", func(r chi.Router) {
		r.Get("/{slug}/stats", app.ListingStats)
	})

	r.Get("/v1/stats/summary", app.StatsSummary)

	r.Route("/v1/track", func(r chi.Router) {
		r.Use(middleware.Origin(opts.DefaultLocale, opts.CountryLookup))
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		r.Post("/", app.Track)
	})

	return r
}
