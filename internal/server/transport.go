package server

import (
	"errors"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/qoslab/qregctl/internal/observability"
	"github.com/qoslab/qregctl/internal/protocol"
	"github.com/qoslab/qregctl/internal/protocol/osc"
)

// receiveLoop is the only receive suspension point. Undecodable
// datagrams are protocol errors: counted, logged and dropped without a
// reply, since no sender identity inside them can be trusted.
func (s *Service) receiveLoop() {
	defer s.wg.Done()
	buf := make([]byte, s.cfg.Limits.MaxPacketBytes)
	for {
		n, raddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn().Err(err).Msg("socket read failed")
			continue
		}
		observability.RecordDatagramReceived()

		msg, err := osc.Decode(buf[:n], s.cfg.Limits)
		if err != nil {
			observability.RecordDatagramUndecodable()
			log.Debug().
				Str("from", raddr.String()).
				Int("bytes", n).
				Err(err).
				Msg("undecodable datagram dropped")
			continue
		}

		// Bounded handoff: when saturated the newest datagram is dropped.
		// The transport is lossy, so this is accepted degradation.
		select {
		case s.inboundQ <- inbound{identity: raddr.String(), msg: msg}:
		default:
			observability.RecordDatagramDropped()
			log.Debug().
				Str("from", raddr.String()).
				Str("addr", msg.Addr).
				Msg("inbound queue full, datagram dropped")
		}
	}
}

// dispatchLoop routes and validates decoded messages in arrival order,
// then admits them to the session layer. Backend execution happens on
// session workers, never here, so one slow session cannot stall
// routing for the others.
func (s *Service) dispatchLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case item := <-s.inboundQ:
			cmd, cmdErr := s.table.Interpret(item.msg)
			if cmdErr != nil {
				observability.RecordCommand("invalid", string(cmdErr.Code), 0)
				s.emit(item.identity, protocol.ErrorReply(item.msg.Addr, cmdErr))
				continue
			}
			s.manager.Dispatch(item.identity, cmd)
		}
	}
}

// sendLoop serializes all socket writes. A failed send affects only the
// reply being written.
func (s *Service) sendLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case item := <-s.outboundQ:
			dest, err := net.ResolveUDPAddr("udp", item.identity)
			if err != nil {
				log.Warn().Str("identity", item.identity).Err(err).
					Msg("unresolvable reply destination")
				continue
			}
			packet, err := osc.Encode(item.reply.Message(), s.cfg.Limits)
			if err != nil {
				log.Warn().Str("addr", item.reply.Addr).Err(err).
					Msg("reply encode failed")
				continue
			}
			if _, err := s.conn.WriteToUDP(packet, dest); err != nil {
				log.Warn().Str("to", item.identity).Err(err).
					Msg("reply send failed")
				continue
			}
			observability.RecordReplySent()
		}
	}
}
