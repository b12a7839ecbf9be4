package http

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Nike1016/selfoss/internal/handler/http/respond"
	"github.com/Nike1016/selfoss/internal/handler/http/responsewriter"
	"github.com/Nike1016/selfoss/internal/observability/logging"
)

// Logging writes one access log line per request. Handlers further down
// find a logger tagged with the request and trace ids via
// logging.FromContext; the access line carries the same tags.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := responsewriter.Wrap(w)
			reqLogger := logging.ForRequest(r.Context(), logger)

			next.ServeHTTP(rw, r.WithContext(logging.NewContext(r.Context(), reqLogger)))

			elapsed := time.Since(start)
			reqLogger.LogAttrs(r.Context(), slog.LevelInfo, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.Int("status", rw.StatusCode()),
				slog.Int("bytes", rw.BytesWritten()),
				slog.Duration("duration", elapsed),
				slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
			)
		})
	}
}

var errInternal = errors.New("internal error")

// Recover turns a panic into a 500 response and an error log with the
// stack. http.ErrAbortHandler is re-raised so net/http can abort the
// connection.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.ForRequest(r.Context(), logger).Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				respond.SafeError(w, http.StatusInternalServerError, errInternal)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
