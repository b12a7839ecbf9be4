package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// failing returns fn that fails with err until it has been called n times.
func failing(n int, err error) (fn func() error, calls *int) {
	calls = new(int)
	return func() error {
		*calls++
		if *calls <= n {
			return err
		}
		return nil
	}, calls
}

func TestWithBackoff(t *testing.T) {
	refused := fmt.Errorf("failed to ping database: %w", syscall.ECONNREFUSED)
	missing := errors.New(`relation "sources" does not exist`)

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{name: "first call succeeds", failures: 0, err: refused, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, err: refused, wantCalls: 3},
		{name: "attempts exhausted", failures: 10, err: syscall.ECONNRESET, wantCalls: 3, wantErr: syscall.ECONNRESET},
		{name: "non-retryable stops at once", failures: 10, err: missing, wantCalls: 1, wantErr: missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := failing(tt.failures, tt.err)
			err := WithBackoff(context.Background(), fastConfig(3), fn)

			assert.Equal(t, tt.wantCalls, *calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithBackoff_ExhaustedMessage(t *testing.T) {
	fn, _ := failing(10, syscall.ECONNREFUSED)
	err := WithBackoff(context.Background(), fastConfig(2), fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retry attempts (2) exceeded")
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	cfg := fastConfig(5)
	cfg.InitialDelay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithBackoff(ctx, cfg, func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return syscall.ECONNREFUSED
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry aborted")
	assert.Equal(t, 2, calls)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", fmt.Errorf("ping: %w", context.DeadlineExceeded), false},
		{"dial timeout", &net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}, true},
		{"refused", syscall.ECONNREFUSED, true},
		{"wrapped refused", fmt.Errorf("failed to ping database: %w", syscall.ECONNREFUSED), true},
		{"reset", syscall.ECONNRESET, true},
		{"timed out", syscall.ETIMEDOUT, true},
		{"unreachable", syscall.ENETUNREACH, true},
		{"postgres connect", &pgconn.ConnectError{}, true},
		{"other", errors.New("some error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestConfig_Delay(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 100*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, 800*time.Millisecond, cfg.Delay(4))
	assert.Equal(t, time.Second, cfg.Delay(5), "capped at MaxDelay")

	flat := Config{InitialDelay: time.Second, Multiplier: 0.5}
	assert.Equal(t, time.Second, flat.Delay(3), "multipliers below 1 do not shrink the delay")
}

func TestConfigs(t *testing.T) {
	for name, cfg := range map[string]Config{
		"default":    DefaultConfig(),
		"db":         DBConfig(),
		"db-connect": DBConnectConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.GreaterOrEqual(t, cfg.MaxAttempts, 1)
			assert.LessOrEqual(t, cfg.InitialDelay, cfg.MaxDelay)
			assert.GreaterOrEqual(t, cfg.Multiplier, 1.0)
		})
	}

	assert.Greater(t, DBConnectConfig().MaxAttempts, DBConfig().MaxAttempts,
		"startup connect should try harder than a single query")
}

func TestAddJitter(t *testing.T) {
	d := 100 * time.Millisecond
	assert.Equal(t, d, addJitter(d, 0))

	seen := map[time.Duration]bool{}
	for i := 0; i < 20; i++ {
		got := addJitter(d, 0.2)
		assert.GreaterOrEqual(t, got, d)
		assert.LessOrEqual(t, got, 120*time.Millisecond)
		seen[got] = true
	}
	assert.Greater(t, len(seen), 1, "jitter should vary")

	capped := addJitter(d, 5)
	assert.LessOrEqual(t, capped, 200*time.Millisecond)
}
