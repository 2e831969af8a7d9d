package session

import "time"

// Config defines session lifecycle and queueing defaults.
type Config struct {
	// IdleTimeout is how long a session may go untouched before it is
	// treated as expired. The protocol has no explicit teardown message,
	// so idle reclamation is the only implicit cleanup path.
	IdleTimeout time.Duration
	// SweepInterval is how often the background sweep scans for expired
	// sessions. Expiry is also checked lazily on access.
	SweepInterval time.Duration
	// QueueLen bounds each session's pending-command queue.
	QueueLen int
}

func DefaultConfig() Config {
	return Config{
		IdleTimeout:   5 * time.Minute,
		SweepInterval: 30 * time.Second,
		QueueLen:      64,
	}
}

func (c Config) WithDefaults() Config {
	out := c
	def := DefaultConfig()
	if out.IdleTimeout <= 0 {
		out.IdleTimeout = def.IdleTimeout
	}
	if out.SweepInterval <= 0 {
		out.SweepInterval = def.SweepInterval
	}
	if out.QueueLen <= 0 {
		out.QueueLen = def.QueueLen
	}
	return out
}
