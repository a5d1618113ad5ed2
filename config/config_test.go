package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.JWT.Issuer != "chapelcast" {
		t.Errorf("expected issuer chapelcast, got %s", cfg.JWT.Issuer)
	}
	if cfg.Notifications.DefaultMaxPerDay != 10 {
		t.Errorf("expected default daily cap 10, got %d", cfg.Notifications.DefaultMaxPerDay)
	}
	if cfg.Notifications.DefaultMaxPerWeek != 50 {
		t.Errorf("expected default weekly cap 50, got %d", cfg.Notifications.DefaultMaxPerWeek)
	}
	if cfg.Notifications.StatsCacheTTL != time.Minute {
		t.Errorf("expected stats TTL 1m, got %v", cfg.Notifications.StatsCacheTTL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFY_MAX_PER_DAY", "3")
	t.Setenv("NOTIFY_MAX_PER_WEEK", "not-a-number")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Notifications.DefaultMaxPerDay != 3 {
		t.Errorf("expected daily cap 3, got %d", cfg.Notifications.DefaultMaxPerDay)
	}
	if cfg.Notifications.DefaultMaxPerWeek != 50 {
		t.Errorf("a malformed int must fall back to the default, got %d", cfg.Notifications.DefaultMaxPerWeek)
	}
}
