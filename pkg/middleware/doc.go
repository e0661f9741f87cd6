// Package middleware provides HTTP middleware for Unison applications.
//
// All middleware is standard func(http.Handler) http.Handler, so it
// mounts on the server's chi router:
//
//	srv.Router().Use(
//	    middleware.Recoverer(logger),
//	    middleware.RequestLogger(logger),
//	    middleware.Prometheus(),
//	    middleware.OpenTelemetry(),
//	)
//
// Prometheus collects request counts, durations, and in-flight gauges
// under the "unison" namespace. OpenTelemetry opens a server span per
// request using the global tracer provider; configure the provider in
// main() before starting the server.
package middleware
