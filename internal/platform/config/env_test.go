package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port     int           `env:"BATTLEBOT_TEST_PORT" envDefault:"123"`
	Interval time.Duration `env:"BATTLEBOT_TEST_INTERVAL" envDefault:"30s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.Interval != 30*time.Second {
		t.Fatalf("expected default interval 30s, got %s", cfg.Interval)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("BATTLEBOT_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestDurationChecks(t *testing.T) {
	if err := NonNegative("settle delay", 0); err != nil {
		t.Fatalf("non-negative zero: %v", err)
	}
	if err := NonNegative("settle delay", -time.Second); err == nil {
		t.Fatal("expected negative duration error")
	}
	if err := Positive("poll interval", 0); err == nil {
		t.Fatal("expected zero duration error")
	}
	if err := Positive("poll interval", time.Second); err != nil {
		t.Fatalf("positive: %v", err)
	}
}
