// Package httpserver wraps net/http.Server with graceful shutdown,
// signal handling, and environment-backed configuration.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// Run blocks until the context is cancelled, SIGINT/SIGTERM is received,
// or the listener fails.
package httpserver
