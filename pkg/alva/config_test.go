package alva

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "endpoint: ws://localhost:8002/ws\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !cfg.AutoConnect {
		t.Fatalf("expected auto_connect default true")
	}
	if cfg.Transports.Provider != "socket" {
		t.Fatalf("expected socket provider default, got %q", cfg.Transports.Provider)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected log defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("VOICE_HOST", "alice.local")
	path := writeConfig(t, "endpoint: ws://${VOICE_HOST}:8002/ws\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Endpoint != "ws://alice.local:8002/ws" {
		t.Fatalf("expected env expansion, got %q", cfg.Endpoint)
	}
}

func TestLoadConfigRequiresEndpointForSocket(t *testing.T) {
	path := writeConfig(t, "log_level: debug\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error without endpoint")
	}
}

func TestBuildTransportRejectsUnknownSettings(t *testing.T) {
	cfg := Config{
		Endpoint: "ws://localhost:8002/ws",
		Transports: TransportsConfig{
			Provider: "socket",
			Settings: map[string]any{"hand_shake": 1},
		},
	}
	if _, err := buildTransport(cfg); err == nil {
		t.Fatalf("expected unknown settings error")
	}
}

func TestBuildTransportMock(t *testing.T) {
	cfg := Config{Transports: TransportsConfig{Provider: "mock"}}
	tr, err := buildTransport(cfg)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if tr.Name() != "mock" {
		t.Fatalf("expected mock transport, got %q", tr.Name())
	}
}
