package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig is the on-disk shape of the daemon configuration.
type ServerConfig struct {
	ListenAddr       string   `toml:"listen_addr"`
	AdminAddr        string   `toml:"admin_addr"`
	Backend          string   `toml:"backend"`
	MaxQubits        int      `toml:"max_qubits"`
	Seed             int64    `toml:"seed"`
	IdleTimeoutSec   int      `toml:"idle_timeout_sec"`
	SweepIntervalSec int      `toml:"sweep_interval_sec"`
	InboundQueueLen  int      `toml:"inbound_queue_len"`
	SessionQueueLen  int      `toml:"session_queue_len"`
	CorsOrigins      []string `toml:"cors_origins"`
}

// ClientConfig is the on-disk shape of the qregcli configuration.
type ClientConfig struct {
	ServerAddr string `toml:"server_addr"`
	TimeoutSec int    `toml:"timeout_sec"`
}

func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := loadToml(path, &cfg); err != nil {
		return ClientConfig{}, err
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "127.0.0.1:7700"
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 5
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("server config missing listen_addr")
	}
	if strings.TrimSpace(cfg.Backend) == "" {
		return fmt.Errorf("server config missing backend")
	}
	if cfg.MaxQubits < 0 {
		return fmt.Errorf("server config max_qubits must not be negative")
	}
	if cfg.IdleTimeoutSec < 0 || cfg.SweepIntervalSec < 0 {
		return fmt.Errorf("server config timeouts must not be negative")
	}
	if cfg.InboundQueueLen < 0 || cfg.SessionQueueLen < 0 {
		return fmt.Errorf("server config queue lengths must not be negative")
	}
	return nil
}

// IdleTimeout converts the configured seconds, zero meaning default.
func (c ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSec) * time.Second
}

// SweepInterval converts the configured seconds, zero meaning default.
func (c ServerConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}
