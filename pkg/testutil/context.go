package testutil

import (
	"net/http"
	"time"

	"registrar/pkg/domain"
	"registrar/pkg/requestcontext"
)

// WithCaller adds a caller account to the request context. This simulates
// what the auth middleware would do for authenticated requests.
func WithCaller(req *http.Request, caller domain.AccountID) *http.Request {
	ctx := requestcontext.WithCaller(req.Context(), caller)
	return req.WithContext(ctx)
}

// WithTime pins the request-scoped time, simulating the RequestTime
// middleware with a fixed clock.
func WithTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
