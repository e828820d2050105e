package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	APIURL string `env:"CMD_TEST_API_URL" envDefault:"https://example.test"`
	Mode   string `env:"CMD_TEST_MODE" envDefault:"mine"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_API_URL", "https://env.test")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.APIURL, "api-url", cfgRef.APIURL, "api url")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"-api-url", "https://flag.test"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.APIURL != "https://flag.test" {
		t.Fatalf("expected flag value for api url, got %q", cfgRef.APIURL)
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	var cfg *testConfig
	if err := ParseConfig(cfg); err == nil {
		t.Fatal("expected nil config target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestLogPrefix(t *testing.T) {
	if got := LogPrefix(ServiceBattle); got != "[BATTLE] " {
		t.Fatalf("prefix = %q, want %q", got, "[BATTLE] ")
	}
}

func TestRunWithTelemetryRunsAndPropagatesError(t *testing.T) {
	t.Setenv("BATTLEBOT_OTEL_ENDPOINT", "")
	want := errors.New("loop stopped")
	called := false
	err := RunWithTelemetry(context.Background(), ServiceBattle, func(context.Context) error {
		called = true
		return want
	})
	if !called {
		t.Fatal("expected run function to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceBattle, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
