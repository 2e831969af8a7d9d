package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "server":
		return serverTemplate, nil
	case "client":
		return clientTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const serverTemplate = `listen_addr = ":7700"
admin_addr = "127.0.0.1:7780"
backend = "gk"
max_qubits = 64
seed = 123
idle_timeout_sec = 300
sweep_interval_sec = 30
inbound_queue_len = 1024
session_queue_len = 64
cors_origins = ["http://localhost:3000"]
`

const clientTemplate = `server_addr = "127.0.0.1:7700"
timeout_sec = 5
`
