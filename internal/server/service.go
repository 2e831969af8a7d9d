// Package server owns the UDP transport: the single receive loop, the
// bounded inbound queue, command dispatch into the session layer, the
// reply sender, and the optional admin HTTP surface.
package server

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/qoslab/qregctl/internal/backend"
	"github.com/qoslab/qregctl/internal/protocol"
	"github.com/qoslab/qregctl/internal/protocol/osc"
	"github.com/qoslab/qregctl/internal/protocol/schema"
	"github.com/qoslab/qregctl/internal/session"
)

// Config is the composed runtime configuration for one daemon.
type Config struct {
	ListenAddr      string
	AdminAddr       string
	BackendName     string
	MaxQubits       int
	Seed            int64
	InboundQueueLen int
	CorsOrigins     []string
	Session         session.Config
	Limits          osc.Limits
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":7700",
		AdminAddr:       "",
		BackendName:     "gk",
		MaxQubits:       64,
		Seed:            123,
		InboundQueueLen: 1024,
		Session:         session.DefaultConfig(),
		Limits:          osc.DefaultLimits(),
	}
}

type inbound struct {
	identity string
	msg      osc.Message
}

type outbound struct {
	identity string
	reply    protocol.Reply
}

// Service is the running daemon: socket, queues, session manager and
// admin listener.
type Service struct {
	cfg     Config
	table   schema.Table
	manager *session.Manager

	conn  *net.UDPConn
	admin *http.Server

	inboundQ  chan inbound
	outboundQ chan outbound

	done chan struct{}
	wg   sync.WaitGroup

	closeOnce sync.Once
}

func NewService(cfg Config) (*Service, error) {
	def := DefaultConfig()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.BackendName == "" {
		cfg.BackendName = def.BackendName
	}
	if cfg.MaxQubits <= 0 {
		cfg.MaxQubits = def.MaxQubits
	}
	if cfg.InboundQueueLen <= 0 {
		cfg.InboundQueueLen = def.InboundQueueLen
	}
	if cfg.Limits == (osc.Limits{}) {
		cfg.Limits = def.Limits
	}

	b, err := backend.Open(cfg.BackendName, cfg.Seed)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:       cfg,
		table:     schema.NewTable(b.Name(), cfg.MaxQubits),
		inboundQ:  make(chan inbound, cfg.InboundQueueLen),
		outboundQ: make(chan outbound, cfg.InboundQueueLen),
		done:      make(chan struct{}),
	}
	s.manager = session.NewManager(b, cfg.Session, s.emit)
	return s, nil
}

// Start binds the socket and launches the receive, dispatch and send
// loops plus the admin listener when configured.
func (s *Service) Start() error {
	addr, err := net.ResolveUDPAddr("udp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("resolve listen addr %q: %w", s.cfg.ListenAddr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("bind %q: %w", s.cfg.ListenAddr, err)
	}
	s.conn = conn

	s.wg.Add(3)
	go s.receiveLoop()
	go s.dispatchLoop()
	go s.sendLoop()

	if s.cfg.AdminAddr != "" {
		if err := s.startAdmin(); err != nil {
			s.Close()
			return err
		}
	}

	log.Info().
		Str("listen", conn.LocalAddr().String()).
		Str("backend", s.cfg.BackendName).
		Msg("qregctl server started")
	return nil
}

// LocalAddr returns the bound socket address. Valid after Start.
func (s *Service) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Sessions exposes the registry snapshot for the admin surface.
func (s *Service) Sessions() []session.Info {
	return s.manager.Sessions()
}

// Run starts the service and blocks until SIGINT or SIGTERM.
func (s *Service) Run() error {
	if err := s.Start(); err != nil {
		return err
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutdown signal received")
	s.Close()
	return nil
}

// Close stops the loops, the session workers and the admin listener.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			_ = s.conn.Close()
		}
		s.manager.Close()
		s.stopAdmin()
		s.wg.Wait()
	})
}

// emit hands one reply to the sender. Never blocks past shutdown.
func (s *Service) emit(identity string, reply protocol.Reply) {
	select {
	case s.outboundQ <- outbound{identity: identity, reply: reply}:
	case <-s.done:
	}
}
