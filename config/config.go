// Package config loads all service configuration from environment
// variables with sane defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Retry     RetryConfig
	Batch     BatchConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8000
}

// BrowserConfig controls the rod browser backends.
type BrowserConfig struct {
	// Headless controls whether the fast backend runs headless.
	// The stealth backend may still leave headless mode when a virtual
	// display is requested and available.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// VirtualDisplay is the X display the stealth backend uses when a
	// request asks for one (e.g. ":99" under Xvfb). Empty disables it.
	VirtualDisplay string
}

// RetryConfig controls the retry controller.
type RetryConfig struct {
	// MaxRetries is the default attempt budget per URL. Clamped to
	// [MinRetries, 10] at request time.
	MaxRetries int // default: 3

	// MinRetries is the lower clamp for client-requested budgets.
	MinRetries int // default: 1

	// DelayBase is the exponential backoff base delay.
	DelayBase time.Duration // default: 2s

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration // default: 30s

	// AttemptTimeout is the per-attempt deadline for fast-first sites.
	AttemptTimeout time.Duration // default: 60s

	// StealthAttemptTimeout is the per-attempt deadline for sites that
	// go straight to the stealth backend.
	StealthAttemptTimeout time.Duration // default: 120s
}

// BatchConfig controls the batch coordinator.
type BatchConfig struct {
	// DefaultConcurrent is the semaphore size when the request leaves
	// max_concurrent unset.
	DefaultConcurrent int // default: 10

	// MaxConcurrent is the upper clamp for client-requested concurrency.
	MaxConcurrent int // default: 20
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 5
	Burst             int     // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string // default: "info"
	Debug bool   // default: false; forces level=debug and text format
}

// SelectorsFile returns the path of an on-disk selector catalog override,
// or "" to use the embedded one.
func SelectorsFile() string {
	return os.Getenv("SELECTORS_FILE")
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("HOST", "0.0.0.0"),
			Port: envIntOr("PORT", 8000),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("HEADLESS", true),
			NoSandbox:      envBoolOr("NO_SANDBOX", true),
			BrowserBin:     os.Getenv("BROWSER_BIN"),
			VirtualDisplay: envOr("VIRTUAL_DISPLAY", ":99"),
		},
		Retry: RetryConfig{
			MaxRetries:            envIntOr("MAX_RETRIES", 3),
			MinRetries:            envIntOr("MIN_RETRIES", 1),
			DelayBase:             envSecondsOr("RETRY_DELAY_BASE", 2*time.Second),
			MaxDelay:              envSecondsOr("MAX_DELAY", 30*time.Second),
			AttemptTimeout:        envSecondsOr("TIMEOUT_SECONDS", 60*time.Second),
			StealthAttemptTimeout: envSecondsOr("STEALTH_TIMEOUT_SECONDS", 120*time.Second),
		},
		Batch: BatchConfig{
			DefaultConcurrent: envIntOr("DEFAULT_MAX_CONCURRENT", 10),
			MaxConcurrent:     envIntOr("MAX_MAX_CONCURRENT", 20),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RATE_RPS", 5.0),
			Burst:             envIntOr("RATE_BURST", 10),
		},
		Log: LogConfig{
			Level: envOr("LOG_LEVEL", "info"),
			Debug: envBoolOr("DEBUG", false),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envSecondsOr reads a duration expressed as a number of seconds
// (fractional allowed), matching how the deployment configures timeouts.
func envSecondsOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return time.Duration(f * float64(time.Second))
		}
	}
	return fallback
}
