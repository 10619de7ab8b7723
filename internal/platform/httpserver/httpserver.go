// Package httpserver constructs the registrar's HTTP server. Timeouts are
// fixed here rather than configurable: the API serves small JSON payloads, so
// one conservative set fits every deployment.
package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	// Above the 30s request timeout the router middleware enforces, so the
	// middleware deadline fires first and the client gets a JSON error.
	writeTimeout = 35 * time.Second
	idleTimeout  = 2 * time.Minute
)

// New returns a server for the given listen address and handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
