// Package retry re-runs operations that fail with transient errors, waiting
// an exponentially growing, jittered delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Config describes a backoff schedule.
type Config struct {
	MaxAttempts    int           // total calls, the first one included
	InitialDelay   time.Duration // wait before the second call
	MaxDelay       time.Duration // cap applied before jitter
	Multiplier     float64       // growth factor per attempt
	JitterFraction float64       // up to this share of the delay is added at random, 0..1
}

// DefaultConfig is a general purpose schedule: 3 calls, 1s doubling to 30s.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// DBConfig suits single queries.
func DBConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// DBConnectConfig waits long enough for a database container that is still
// starting next to the API.
func DBConnectConfig() Config {
	return Config{MaxAttempts: 8, InitialDelay: 500 * time.Millisecond, MaxDelay: 10 * time.Second, Multiplier: 2, JitterFraction: 0.2}
}

// Delay returns the wait after the given failed attempt (1-based), before jitter.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(c.InitialDelay) * math.Pow(mult, float64(attempt-1))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(d)
}

// WithBackoff calls fn until it succeeds, fails with an error IsRetryable
// rejects, ctx is done, or MaxAttempts calls have been made.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		wait := addJitter(cfg.Delay(attempt), cfg.JitterFraction)
		slog.WarnContext(ctx, "operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))
		if werr := sleep(ctx, wait); werr != nil {
			return fmt.Errorf("retry aborted: %w", werr)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var transientErrnos = []syscall.Errno{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ETIMEDOUT,
	syscall.ENETUNREACH,
}

// IsRetryable reports whether err looks transient. Context cancellation
// never is.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = math.Min(fraction, 1)
	// #nosec G404 -- jitter does not need cryptographic randomness.
	return d + time.Duration(rand.Float64()*fraction*float64(d))
}
