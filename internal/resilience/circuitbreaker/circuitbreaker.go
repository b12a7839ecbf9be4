// Package circuitbreaker stops calling a failing dependency for a while once
// its failure ratio crosses a threshold. It wraps github.com/sony/gobreaker
// and publishes the breaker state as a Prometheus gauge.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nike1016/selfoss/internal/observability/metrics"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name labels logs and metrics.
	Name string

	// MaxRequests is how many probe calls pass while half-open; that many
	// consecutive successes close the circuit again.
	MaxRequests uint32

	// Interval clears the closed-state counts periodically. Zero never clears.
	Interval time.Duration

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the circuit, e.g. 0.6.
	FailureThreshold float64

	// MinRequests is the sample size needed before the ratio is considered.
	MinRequests uint32

	// IsSuccessful decides whether an error counts as a failure.
	// nil counts every non-nil error.
	IsSuccessful func(err error) bool
}

// DefaultConfig trips at 60% failures over at least 5 calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// DBConfig opens after 5 failed calls in a row within a minute and probes
// again after 30 seconds.
func DBConfig() Config {
	cfg := DefaultConfig("database")
	cfg.Interval = time.Minute
	cfg.Timeout = 30 * time.Second
	cfg.FailureThreshold = 1.0
	return cfg
}

// CircuitBreaker wraps gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a closed circuit breaker.
func New(cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{name: cfg.Name}
	cb.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		IsSuccessful:  cfg.IsSuccessful,
		ReadyToTrip:   tripAt(cfg.MinRequests, cfg.FailureThreshold),
		OnStateChange: onStateChange,
	})
	metrics.SetCircuitBreakerState(cfg.Name, stateValue(gobreaker.StateClosed))
	return cb
}

func tripAt(minRequests uint32, threshold float64) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < minRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= threshold
	}
}

func onStateChange(name string, from, to gobreaker.State) {
	metrics.SetCircuitBreakerState(name, stateValue(to))
	level := slog.LevelWarn
	if to == gobreaker.StateClosed {
		level = slog.LevelInfo
	}
	slog.Log(context.Background(), level, "circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Execute runs fn through the circuit breaker. While the circuit is open it
// returns gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	out, err := cb.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordCircuitBreakerRejection(cb.name)
	}
	return out, err
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently refused.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
