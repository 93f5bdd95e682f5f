// Package httpserver wraps net/http with graceful shutdown, env-driven
// timeouts, health probes and slog lifecycle logging.
//
// Run (or Serve, for an already bound listener) blocks until the context is
// cancelled, SIGINT/SIGTERM arrives or Shutdown is called, then drains
// in-flight requests within the shutdown timeout. Request contexts derive
// from the Run context but are not cancelled by it, so a shutdown does not
// abort requests that are still being drained.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.Liveness())
//	r.Get("/health/ready", httpserver.Readiness(log, checkCatalog))
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Listen and serve failures are joined with ErrStart, shutdown failures with
// ErrShutdown. Use errors.Is to tell them apart.
package httpserver
