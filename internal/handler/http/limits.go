package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nike1016/selfoss/internal/handler/http/respond"
)

// Request size limits enforced by InputValidation.
const (
	MaxPathLength  = 2048
	DefaultMaxBody = 1 << 20
)

var (
	errURITooLong  = errors.New("URI too long")
	errBodyTooLong = errors.New("request body too large")
)

// InputValidation rejects paths longer than MaxPathLength with 414 and
// bodies declared larger than maxBody with 413. Bodies of unknown length are
// cut off at maxBody while being read. A non-positive maxBody means
// DefaultMaxBody.
func InputValidation(maxBody int64) func(http.Handler) http.Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case len(r.URL.Path) > MaxPathLength:
				respond.Error(w, http.StatusRequestURITooLong, errURITooLong)
			case r.ContentLength > maxBody:
				respond.Error(w, http.StatusRequestEntityTooLarge, errBodyTooLong)
			default:
				r.Body = http.MaxBytesReader(w, r.Body, maxBody)
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Timeout bounds the request context by d; storage calls then fail with
// context.DeadlineExceeded, which handlers report as a server error.
// A non-positive d leaves the context alone.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
