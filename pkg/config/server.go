package config

import (
	"strconv"
	"time"
)

// Server is the configuration of the HTTP API process.
type Server struct {
	Addr            string
	Version         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	// SpoutsFile adds spout definitions to the built-in ones. Empty means built-ins only.
	SpoutsFile string
	RateLimit  RateLimit
}

// RateLimit configures the per-client token bucket in front of write requests.
type RateLimit struct {
	Enabled         bool
	RPS             float64
	Burst           int
	TrustProxy      bool
	CleanupInterval time.Duration
	IdleTTL         time.Duration
}

// LoadServer reads the server configuration.
//
// Environment variables:
//   - HTTP_ADDR (default ":8080")
//   - VERSION (default "dev")
//   - REQUEST_TIMEOUT (default 30s, 1s..5m)
//   - SHUTDOWN_TIMEOUT (default 10s)
//   - MAX_BODY_BYTES (default 1 MiB)
//   - SPOUTS_FILE (default none)
//   - RATE_LIMIT_ENABLED (default true)
//   - RATE_LIMIT_RPS (default 5)
//   - RATE_LIMIT_BURST (default 20)
//   - RATE_LIMIT_TRUST_PROXY (default false)
//   - RATE_LIMIT_CLEANUP_INTERVAL (default 5m)
//   - RATE_LIMIT_IDLE_TTL (default 10m)
func LoadServer() (Server, error) {
	cfg := Server{
		Addr:            GetEnvString("HTTP_ADDR", ":8080"),
		Version:         GetEnvString("VERSION", "dev"),
		RequestTimeout:  GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxBodyBytes:    int64(GetEnvInt("MAX_BODY_BYTES", 1<<20)),
		SpoutsFile:      GetEnvString("SPOUTS_FILE", ""),
		RateLimit: RateLimit{
			Enabled:         GetEnvBool("RATE_LIMIT_ENABLED", true),
			RPS:             GetEnvFloat("RATE_LIMIT_RPS", 5),
			Burst:           GetEnvInt("RATE_LIMIT_BURST", 20),
			TrustProxy:      GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
			CleanupInterval: GetEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
			IdleTTL:         GetEnvDuration("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
		},
	}

	if err := CheckDuration("REQUEST_TIMEOUT", cfg.RequestTimeout, time.Second, 5*time.Minute); err != nil {
		return Server{}, err
	}
	if err := CheckDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, 0, 0); err != nil {
		return Server{}, err
	}
	if cfg.MaxBodyBytes <= 0 {
		return Server{}, &ValidationError{Field: "MAX_BODY_BYTES", Value: strconv.FormatInt(cfg.MaxBodyBytes, 10), Message: "must be positive"}
	}

	if rl := cfg.RateLimit; rl.Enabled {
		if rl.RPS <= 0 {
			return Server{}, &ValidationError{Field: "RATE_LIMIT_RPS", Value: strconv.FormatFloat(rl.RPS, 'g', -1, 64), Message: "must be positive"}
		}
		if rl.Burst < 1 {
			return Server{}, &ValidationError{Field: "RATE_LIMIT_BURST", Value: strconv.Itoa(rl.Burst), Message: "must be at least 1"}
		}
		if err := CheckDuration("RATE_LIMIT_CLEANUP_INTERVAL", rl.CleanupInterval, 0, 0); err != nil {
			return Server{}, err
		}
		if err := CheckDuration("RATE_LIMIT_IDLE_TTL", rl.IdleTTL, 0, 0); err != nil {
			return Server{}, err
		}
	}
	return cfg, nil
}
