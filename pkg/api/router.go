package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/magsubs/pkg/catalog"
	"github.com/dmitrymomot/magsubs/pkg/clientip"
	"github.com/dmitrymomot/magsubs/pkg/httpserver"
	"github.com/dmitrymomot/magsubs/pkg/ledger"
	"github.com/dmitrymomot/magsubs/pkg/logger"
	"github.com/dmitrymomot/magsubs/pkg/requestid"
)

// Config holds transport settings loaded from the environment.
type Config struct {
	TrustProxy     bool     `env:"HTTP_TRUST_PROXY" envDefault:"false"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type Option func(*options)

type options struct {
	cfg    Config
	log    *slog.Logger
	checks []httpserver.Check
}

func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the request logger. Build it with the requestid and
// clientip extractors to get correlated records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithReadinessChecks adds checks run by GET /health/ready.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(o *options) { o.checks = append(o.checks, checks...) }
}

// NewRouter mounts the magazine, plan and subscription routes.
// Panics if cat or svc is nil.
func NewRouter(cat catalog.Store, svc ledger.Service, opts ...Option) http.Handler {
	if cat == nil || svc == nil {
		panic("api: catalog and ledger are required")
	}

	o := &options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	log := o.log.With(logger.Component("api"))

	h := &handlers{catalog: cat, ledger: svc, log: log}

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(o.cfg.TrustProxy))
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)
	if len(o.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: o.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
			ExposedHeaders: []string{requestid.Header},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) { h.fail(w, r, ErrRouteNotFound) })
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) { h.fail(w, r, ErrNotAllowed) })

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", httpserver.Liveness())
		r.Get("/ready", httpserver.Readiness(log, o.checks...))
	})

	r.Route("/magazines", func(r chi.Router) {
		r.Post("/", h.createMagazine)
		r.Get("/", h.listMagazines)
	})

	r.Get("/plans", h.listPlans)

	r.Route("/subscriptions", func(r chi.Router) {
		r.Post("/", h.createSubscription)
		r.Get("/", h.listSubscriptions)
		r.Get("/history", h.subscriptionHistory)
		r.Put("/{subscriptionID}", h.modifySubscription)
		r.Delete("/{subscriptionID}", h.cancelSubscription)
	})

	return r
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.LogAttrs(r.Context(), slog.LevelInfo, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
