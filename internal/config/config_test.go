package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTemplatesLoadBack(t *testing.T) {
	dir := t.TempDir()

	serverPath := filepath.Join(dir, "qregd.toml")
	if err := WriteTemplate(serverPath, "server", false); err != nil {
		t.Fatalf("write server template: %v", err)
	}
	var server ServerConfig
	if err := loadToml(serverPath, &server); err != nil {
		t.Fatalf("load server template: %v", err)
	}
	if err := ValidateServerConfig(server); err != nil {
		t.Fatalf("server template invalid: %v", err)
	}
	if server.Backend != "gk" || server.ListenAddr != ":7700" || server.Seed != 123 {
		t.Fatalf("unexpected server template values: %+v", server)
	}
	if server.IdleTimeout() != 5*time.Minute || server.SweepInterval() != 30*time.Second {
		t.Fatalf("unexpected template durations: %+v", server)
	}

	clientPath := filepath.Join(dir, "qregcli.toml")
	if err := WriteTemplate(clientPath, "client", false); err != nil {
		t.Fatalf("write client template: %v", err)
	}
	client, err := LoadClientConfig(clientPath)
	if err != nil {
		t.Fatalf("load client template: %v", err)
	}
	if client.ServerAddr != "127.0.0.1:7700" || client.TimeoutSec != 5 {
		t.Fatalf("unexpected client template values: %+v", client)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, "server", false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteTemplate(path, "server", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "client", true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
}

func TestTemplateUnknownKind(t *testing.T) {
	if _, err := Template("ghost"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestLoadClientConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qregcli.toml")
	if err := os.WriteFile(path, []byte("timeout_sec = 0\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerAddr != "127.0.0.1:7700" || cfg.TimeoutSec != 5 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestValidateServerConfig(t *testing.T) {
	good := ServerConfig{ListenAddr: ":7700", Backend: "gk"}
	if err := ValidateServerConfig(good); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	bad := []ServerConfig{
		{Backend: "gk"},
		{ListenAddr: ":7700"},
		{ListenAddr: ":7700", Backend: "gk", MaxQubits: -1},
		{ListenAddr: ":7700", Backend: "gk", IdleTimeoutSec: -1},
		{ListenAddr: ":7700", Backend: "gk", SessionQueueLen: -1},
	}
	for i, cfg := range bad {
		if err := ValidateServerConfig(cfg); err == nil {
			t.Fatalf("case %d: invalid config accepted: %+v", i, cfg)
		}
	}
}
