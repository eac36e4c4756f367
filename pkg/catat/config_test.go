package catat

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
vendors:
  source:
    provider: mock
  recognizer:
    provider: mock
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EventLog != "logs.txt" {
		t.Fatalf("unexpected event log: %q", cfg.EventLog)
	}
	if cfg.Language != "en-US" {
		t.Fatalf("unexpected language: %q", cfg.Language)
	}
	if cfg.Triggers.Start != "start my friend" || cfg.Triggers.Stop != "finish my friend" {
		t.Fatalf("unexpected triggers: %+v", cfg.Triggers)
	}
	bounds := cfg.ListenBounds()
	if bounds.SilenceTimeout != 5*time.Second || bounds.MaxPhrase != 10*time.Second {
		t.Fatalf("unexpected listen bounds: %+v", bounds)
	}
	if bounds.EnergyThreshold != 300 || !bounds.DynamicEnergy {
		t.Fatalf("unexpected energy config: %+v", bounds)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("CATAT_TEST_API_KEY", "sk-abc123")
	path := writeConfig(t, `
event_log: ${CATAT_TEST_API_KEY}.txt
vendors:
  source:
    provider: mock
  recognizer:
    provider: deepgram
    settings:
      api_key: ${CATAT_TEST_API_KEY}
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EventLog != "sk-abc123.txt" {
		t.Fatalf("env not expanded in scalar: %q", cfg.EventLog)
	}
	if got := cfg.Vendors.Recognizer.Settings["api_key"]; got != "sk-abc123" {
		t.Fatalf("env not expanded in settings: %v", got)
	}
}

func TestLoadConfigRequiresProviders(t *testing.T) {
	path := writeConfig(t, `
vendors:
  source:
    provider: mock
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for missing recognizer provider")
	}
}

func TestRegistryBuildsMockVendors(t *testing.T) {
	cfg := testConfig(t)
	registry := DefaultProviderRegistry()

	src, err := registry.BuildSource("mock", cfg)
	if err != nil {
		t.Fatalf("build source: %v", err)
	}
	if src.Name() != "mock_source" {
		t.Fatalf("unexpected source: %s", src.Name())
	}

	if _, err := registry.BuildRecognizer("nope", cfg); err == nil {
		t.Fatal("expected error for unregistered recognizer")
	}
}

func TestRegistryRejectsBadDeepgramSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Vendors.Recognizer = VendorConfig{
		Provider: "deepgram",
		Settings: map[string]any{"model": "nova-2"},
	}
	if _, err := DefaultProviderRegistry().BuildRecognizer("deepgram", cfg); err == nil {
		t.Fatal("expected missing api_key error")
	}
}
