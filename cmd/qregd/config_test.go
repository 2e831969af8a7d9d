package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigDefaultsWhenKeysAbsent(t *testing.T) {
	path := writeConfig(t, "listen_addr = \"127.0.0.1:7700\"\n")
	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:7700" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.BackendName != "gk" {
		t.Fatalf("expected default backend, got %q", cfg.BackendName)
	}
	if cfg.MaxQubits != 64 {
		t.Fatalf("expected default max qubits, got %d", cfg.MaxQubits)
	}
	if cfg.Session.IdleTimeout != 5*time.Minute {
		t.Fatalf("expected default idle timeout, got %v", cfg.Session.IdleTimeout)
	}
}

func TestLoadServiceConfigOverlay(t *testing.T) {
	path := writeConfig(t, `
listen_addr = ":7701"
admin_addr = "127.0.0.1:7780"
backend = "steane"
max_qubits = 8
seed = 42
idle_timeout_sec = 60
session_queue_len = 16
`)
	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BackendName != "steane" {
		t.Fatalf("unexpected backend %q", cfg.BackendName)
	}
	if cfg.AdminAddr != "127.0.0.1:7780" {
		t.Fatalf("unexpected admin addr %q", cfg.AdminAddr)
	}
	if cfg.Seed != 42 {
		t.Fatalf("unexpected seed %d", cfg.Seed)
	}
	if cfg.Session.IdleTimeout != time.Minute {
		t.Fatalf("unexpected idle timeout %v", cfg.Session.IdleTimeout)
	}
	if cfg.Session.QueueLen != 16 {
		t.Fatalf("unexpected session queue len %d", cfg.Session.QueueLen)
	}
}

func TestLoadServiceConfigRejectsEmptyBackend(t *testing.T) {
	path := writeConfig(t, "backend = \"\"\n")
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected error for empty backend")
	}
}
