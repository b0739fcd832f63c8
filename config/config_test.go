package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.Server.Host)
	}
	if !cfg.Browser.Headless || !cfg.Browser.NoSandbox {
		t.Errorf("browser defaults = %+v", cfg.Browser)
	}
	if cfg.Retry.MaxRetries != 3 || cfg.Retry.MinRetries != 1 {
		t.Errorf("retry defaults = %+v", cfg.Retry)
	}
	if cfg.Retry.DelayBase != 2*time.Second || cfg.Retry.MaxDelay != 30*time.Second {
		t.Errorf("backoff defaults = %+v", cfg.Retry)
	}
	if cfg.Retry.AttemptTimeout != 60*time.Second || cfg.Retry.StealthAttemptTimeout != 120*time.Second {
		t.Errorf("timeout defaults = %+v", cfg.Retry)
	}
	if cfg.Batch.DefaultConcurrent != 10 || cfg.Batch.MaxConcurrent != 20 {
		t.Errorf("batch defaults = %+v", cfg.Batch)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_RETRIES", "7")
	t.Setenv("TIMEOUT_SECONDS", "45")
	t.Setenv("STEALTH_TIMEOUT_SECONDS", "90.5")
	t.Setenv("HEADLESS", "false")
	t.Setenv("DEFAULT_MAX_CONCURRENT", "4")

	cfg := Load()
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Retry.MaxRetries != 7 {
		t.Errorf("max retries = %d, want 7", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.AttemptTimeout != 45*time.Second {
		t.Errorf("attempt timeout = %v, want 45s", cfg.Retry.AttemptTimeout)
	}
	if cfg.Retry.StealthAttemptTimeout != 90500*time.Millisecond {
		t.Errorf("stealth timeout = %v, want 90.5s", cfg.Retry.StealthAttemptTimeout)
	}
	if cfg.Browser.Headless {
		t.Error("HEADLESS=false not honored")
	}
	if cfg.Batch.DefaultConcurrent != 4 {
		t.Errorf("default concurrent = %d, want 4", cfg.Batch.DefaultConcurrent)
	}
}

func TestLoad_GarbageEnvFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("TIMEOUT_SECONDS", "-5")
	t.Setenv("HEADLESS", "maybe")

	cfg := Load()
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want default on bad input", cfg.Server.Port)
	}
	if cfg.Retry.AttemptTimeout != 60*time.Second {
		t.Errorf("timeout = %v, want default on non-positive input", cfg.Retry.AttemptTimeout)
	}
	if !cfg.Browser.Headless {
		t.Error("unparseable bool should keep the default")
	}
}

func TestSelectorsFile(t *testing.T) {
	if got := SelectorsFile(); got != "" {
		t.Errorf("SelectorsFile() = %q, want empty by default", got)
	}
	t.Setenv("SELECTORS_FILE", "/etc/pricewatch/selectors.json")
	if got := SelectorsFile(); got != "/etc/pricewatch/selectors.json" {
		t.Errorf("SelectorsFile() = %q", got)
	}
}
