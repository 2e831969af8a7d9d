package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/qoslab/qregctl/internal/backend"
	"github.com/qoslab/qregctl/internal/observability"
	"github.com/qoslab/qregctl/internal/protocol"
	"github.com/qoslab/qregctl/internal/protocol/osc"
	"github.com/qoslab/qregctl/internal/protocol/schema"
)

// EmitFunc delivers one reply toward a client identity.
type EmitFunc func(identity string, reply protocol.Reply)

// Manager owns the identity->session registry and drives command
// execution. Sessions for different identities run concurrently; a
// given session's commands run one at a time in admission order.
type Manager struct {
	cfg     Config
	backend backend.Backend
	emit    EmitFunc
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	wg   sync.WaitGroup
	done chan struct{}
}

func NewManager(b backend.Backend, cfg Config, emit EmitFunc) *Manager {
	m := &Manager{
		cfg:      cfg.WithDefaults(),
		backend:  b,
		emit:     emit,
		now:      time.Now,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.sweepLoop()
	return m
}

// Dispatch admits one validated command for a client identity. Exactly
// one reply is emitted per call, either here (admission errors) or from
// the session worker. Dispatch never blocks on backend work.
func (m *Manager) Dispatch(identity string, cmd protocol.Command) {
	if cmd.Kind == protocol.KindInit {
		m.dispatchInit(identity, cmd)
		return
	}

	s, cmdErr := m.lookup(identity)
	if cmdErr != nil {
		m.emit(identity, protocol.ErrorReply(cmd.Addr, cmdErr))
		return
	}
	if cmdErr := schema.CheckQubitRange(cmd, s.qubitCount); cmdErr != nil {
		m.emit(identity, protocol.ErrorReply(cmd.Addr, cmdErr))
		return
	}

	s.touch(m.now())
	switch err := s.enqueue(cmd); err {
	case nil:
	case errQueueFull:
		// Routed and validated, so the drop must be answered: the silent
		// loss budget covers only pre-routing inbound overflow.
		observability.RecordSessionQueueDrop()
		log.Warn().
			Str("identity", identity).
			Str("command", cmd.Kind.String()).
			Msg("session queue full, command rejected")
		m.emit(identity, protocol.ErrorReply(cmd.Addr,
			protocol.NewError(protocol.CodeBusy,
				"session queue saturated, retry later")))
	default:
		m.emit(identity, protocol.ErrorReply(cmd.Addr,
			protocol.NewError(protocol.CodeNoActiveSession,
				"session was closed, send init first")))
	}
}

func (m *Manager) dispatchInit(identity string, cmd protocol.Command) {
	now := m.now()
	s := &Session{
		identity:   identity,
		qubitCount: cmd.QubitCount,
		createdAt:  now,
		lastActive: now,
		queue:      make(chan protocol.Command, m.cfg.QueueLen),
	}

	m.mu.Lock()
	prev := m.sessions[identity]
	m.sessions[identity] = s
	m.mu.Unlock()

	// A fresh Init evicts any prior session for the identity: its worker
	// drains what was already admitted against the old register, then
	// exits.
	if prev != nil {
		prev.stop()
	}
	observability.SetActiveSessions(m.sessionCount())

	// Register allocation runs on the session worker so a slow or large
	// allocation cannot stall admission for other identities.
	m.wg.Add(1)
	go m.runWorker(s, cmd)
}

// lookup finds a live session, reclaiming it lazily when expired.
func (m *Manager) lookup(identity string) (*Session, *protocol.Error) {
	m.mu.RLock()
	s, ok := m.sessions[identity]
	m.mu.RUnlock()
	if !ok {
		return nil, protocol.NewError(protocol.CodeNoActiveSession,
			"no session for this client, send init first")
	}
	if s.expired(m.now(), m.cfg.IdleTimeout) {
		m.remove(identity, s)
		observability.RecordSessionExpired()
		return nil, protocol.NewError(protocol.CodeSessionExpired,
			"session idle beyond %s, re-initialization required", m.cfg.IdleTimeout)
	}
	return s, nil
}

func (m *Manager) remove(identity string, s *Session) {
	m.mu.Lock()
	if current, ok := m.sessions[identity]; ok && current == s {
		delete(m.sessions, identity)
	}
	m.mu.Unlock()
	s.stop()
	observability.SetActiveSessions(m.sessionCount())
}

func (m *Manager) sessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sessions returns a deterministic registry snapshot.
func (m *Manager) Sessions() []Info {
	m.mu.RLock()
	list := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s.snapshot())
	}
	m.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		return list[i].Identity < list[j].Identity
	})
	return list
}

// Close stops the sweep loop and all session workers, waiting for
// in-flight commands to finish.
func (m *Manager) Close() {
	close(m.done)
	m.mu.Lock()
	for identity, s := range m.sessions {
		delete(m.sessions, identity)
		s.stop()
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	now := m.now()
	m.mu.RLock()
	var stale []*Session
	for _, s := range m.sessions {
		if s.expired(now, m.cfg.IdleTimeout) {
			stale = append(stale, s)
		}
	}
	m.mu.RUnlock()
	for _, s := range stale {
		m.remove(s.identity, s)
		observability.RecordSessionExpired()
		log.Info().Str("identity", s.identity).Msg("idle session reclaimed")
	}
}

func (m *Manager) runWorker(s *Session, initCmd protocol.Command) {
	defer m.wg.Done()
	closed := false

	register, err := m.backend.Allocate(initCmd.QubitCount)
	if err != nil {
		m.remove(s.identity, s)
		m.emit(s.identity, protocol.ErrorReply(initCmd.Addr,
			protocol.NewError(protocol.CodeBackendFailure, "allocate: %v", err)))
		closed = true
	} else {
		s.register = register
		log.Info().
			Str("identity", s.identity).
			Int("qubits", initCmd.QubitCount).
			Msg("session initialized")
		m.emit(s.identity, protocol.SuccessReply(initCmd.Addr))
	}

	for cmd := range s.queue {
		if closed {
			m.emit(s.identity, protocol.ErrorReply(cmd.Addr,
				protocol.NewError(protocol.CodeNoActiveSession,
					"session was closed, send init first")))
			continue
		}
		if m.execute(s, cmd) {
			closed = true
		}
	}
}

// execute runs one command against the session register and emits its
// reply. Reports whether the command closed the session.
func (m *Manager) execute(s *Session, cmd protocol.Command) bool {
	start := m.now()
	var reply protocol.Reply
	outcome := "ok"
	closing := false

	switch cmd.Kind {
	case protocol.KindApplyGate:
		if err := s.register.ApplyGate(cmd.Gate, cmd.Qubits, cmd.Params); err != nil {
			reply, outcome = backendFailure(cmd, s, err)
		} else {
			reply = protocol.SuccessReply(cmd.Addr)
		}
	case protocol.KindMeasure:
		bits, err := s.register.Measure(cmd.Qubits)
		if err != nil {
			reply, outcome = backendFailure(cmd, s, err)
		} else {
			reply = protocol.SuccessReply(cmd.Addr, osc.Blob(bits))
		}
	case protocol.KindReset:
		// Reset discards the register and closes the session; the client
		// starts over with a fresh Init.
		if err := s.register.Reset(); err != nil {
			reply, outcome = backendFailure(cmd, s, err)
		} else {
			reply = protocol.SuccessReply(cmd.Addr)
		}
		m.remove(s.identity, s)
		closing = true
	case protocol.KindQuery:
		reply = protocol.SuccessReply(cmd.Addr, osc.String(m.status(s)))
	default:
		reply = protocol.ErrorReply(cmd.Addr, protocol.NewError(
			protocol.CodeUnknownCommand, "unexecutable command kind %s", cmd.Kind))
		outcome = "error"
	}

	observability.RecordCommand(cmd.Kind.String(), outcome, m.now().Sub(start))
	m.emit(s.identity, reply)
	return closing
}

func (m *Manager) status(s *Session) string {
	info := s.snapshot()
	return fmt.Sprintf("qubits=%d age=%s degraded=%t",
		info.QubitCount,
		m.now().Sub(info.CreatedAt).Round(time.Millisecond),
		info.Degraded)
}

func backendFailure(cmd protocol.Command, s *Session, err error) (protocol.Reply, string) {
	// Gate rejections leave the register untouched; anything else leaves
	// it in a degraded state the client clears via reset.
	if !errors.Is(err, backend.ErrUnsupportedGate) && !errors.Is(err, backend.ErrBadArity) {
		s.markDegraded()
	}
	log.Warn().
		Str("identity", s.identity).
		Str("command", cmd.Kind.String()).
		Str("gate", cmd.Gate).
		Err(err).
		Msg("backend operation failed")
	return protocol.ErrorReply(cmd.Addr,
		protocol.NewError(protocol.CodeBackendFailure, "%v", err)), "backend_failure"
}
