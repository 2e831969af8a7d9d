package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/qoslab/qregctl/internal/config"
	"github.com/qoslab/qregctl/internal/server"
)

// loadServiceConfig decodes config.toml into the shared on-disk shape
// and overlays only the keys the file actually defines onto the runtime
// defaults.
func loadServiceConfig(path string) (server.Config, error) {
	cfg := server.DefaultConfig()

	var raw config.ServerConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return server.Config{}, fmt.Errorf("load qregd config: %w", err)
	}

	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("backend") {
		cfg.BackendName = strings.TrimSpace(raw.Backend)
	}
	if meta.IsDefined("max_qubits") {
		cfg.MaxQubits = raw.MaxQubits
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("idle_timeout_sec") {
		cfg.Session.IdleTimeout = raw.IdleTimeout()
	}
	if meta.IsDefined("sweep_interval_sec") {
		cfg.Session.SweepInterval = raw.SweepInterval()
	}
	if meta.IsDefined("inbound_queue_len") {
		cfg.InboundQueueLen = raw.InboundQueueLen
	}
	if meta.IsDefined("session_queue_len") {
		cfg.Session.QueueLen = raw.SessionQueueLen
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}

	merged := config.ServerConfig{
		ListenAddr:       cfg.ListenAddr,
		AdminAddr:        cfg.AdminAddr,
		Backend:          cfg.BackendName,
		MaxQubits:        cfg.MaxQubits,
		Seed:             cfg.Seed,
		IdleTimeoutSec:   int(cfg.Session.IdleTimeout / time.Second),
		SweepIntervalSec: int(cfg.Session.SweepInterval / time.Second),
		InboundQueueLen:  cfg.InboundQueueLen,
		SessionQueueLen:  cfg.Session.QueueLen,
		CorsOrigins:      cfg.CorsOrigins,
	}
	if err := config.ValidateServerConfig(merged); err != nil {
		return server.Config{}, fmt.Errorf("load qregd config: %w", err)
	}
	if cfg.MaxQubits < 1 {
		return server.Config{}, fmt.Errorf("load qregd config: max_qubits must be positive")
	}

	cfg.Session = cfg.Session.WithDefaults()
	return cfg, nil
}
