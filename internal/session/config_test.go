package session

import (
	"testing"
	"time"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg != DefaultConfig() {
		t.Fatalf("zero config did not default: %+v", cfg)
	}

	cfg = Config{IdleTimeout: time.Second}.WithDefaults()
	if cfg.IdleTimeout != time.Second {
		t.Fatalf("explicit idle timeout overwritten: %v", cfg.IdleTimeout)
	}
	if cfg.SweepInterval != DefaultConfig().SweepInterval || cfg.QueueLen != DefaultConfig().QueueLen {
		t.Fatalf("unset fields not defaulted: %+v", cfg)
	}
}
