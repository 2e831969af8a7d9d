package session

import (
	"errors"
	"sync"
	"time"

	"github.com/qoslab/qregctl/internal/backend"
	"github.com/qoslab/qregctl/internal/protocol"
)

var (
	errSessionStopped = errors.New("session stopped")
	errQueueFull      = errors.New("session queue full")
)

// Session binds one client network identity to a live qubit register
// plus lifecycle metadata. Register mutation happens only on the
// session's single worker goroutine; the queue is the serialization
// guard giving per-session FIFO execution in transport arrival order.
type Session struct {
	identity   string
	register   backend.Register
	qubitCount int
	createdAt  time.Time

	queue chan protocol.Command

	mu         sync.Mutex
	lastActive time.Time
	degraded   bool
	stopped    bool
}

// Info is a read-only session snapshot for the admin surface.
type Info struct {
	Identity   string    `json:"identity"`
	QubitCount int       `json:"qubit_count"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	Degraded   bool      `json:"degraded"`
}

func (s *Session) snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		Identity:   s.identity,
		QubitCount: s.qubitCount,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
		Degraded:   s.degraded,
	}
}

func (s *Session) expired(now time.Time, idleTimeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive) > idleTimeout
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *Session) markDegraded() {
	s.mu.Lock()
	s.degraded = true
	s.mu.Unlock()
}

// enqueue hands one admitted command to the worker.
func (s *Session) enqueue(cmd protocol.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return errSessionStopped
	}
	select {
	case s.queue <- cmd:
		return nil
	default:
		return errQueueFull
	}
}

// stop closes the queue exactly once; the worker drains what was already
// admitted and exits.
func (s *Session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.queue)
}
