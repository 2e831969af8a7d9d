// Package schema owns the address routing table and the argument schemas
// turning decoded messages into typed commands.
//
// Routing is exact-path over the composed backend namespace:
//
//	/<backend>/init     [qubitCount:i]
//	/<backend>/gate     [gateId:s, qubits:i..., params:f...]
//	/<backend>/measure  [qubits:i...]
//	/<backend>/reset    []
//	/<backend>/query    []
//
// OSC has no list type, so gate and measure arguments are flat: every int32
// after the gate id is a qubit index and every float32 a gate parameter.
package schema

import (
	"strings"

	"github.com/qoslab/qregctl/internal/protocol"
	"github.com/qoslab/qregctl/internal/protocol/osc"
)

// Operation path segments under the backend namespace.
const (
	OpInit    = "init"
	OpGate    = "gate"
	OpMeasure = "measure"
	OpReset   = "reset"
	OpQuery   = "query"
)

var kinds = map[string]protocol.CommandKind{
	OpInit:    protocol.KindInit,
	OpGate:    protocol.KindApplyGate,
	OpMeasure: protocol.KindMeasure,
	OpReset:   protocol.KindReset,
	OpQuery:   protocol.KindQuery,
}

// Table routes and validates messages for one composed backend namespace.
// Routing is stateless and side-effect-free.
type Table struct {
	backend   string
	maxQubits int
}

func NewTable(backend string, maxQubits int) Table {
	return Table{backend: strings.Trim(backend, "/"), maxQubits: maxQubits}
}

// Route matches an address to a command kind. Exact-path only, no
// wildcard expansion.
func (t Table) Route(addr string) (protocol.CommandKind, bool) {
	rest, ok := strings.CutPrefix(addr, "/"+t.backend+"/")
	if !ok {
		return 0, false
	}
	kind, ok := kinds[rest]
	return kind, ok
}

// Interpret validates a decoded message against the operation's argument
// schema and produces a fully-typed command. It never partially applies
// state: on any violation the command is rejected whole.
func (t Table) Interpret(msg osc.Message) (protocol.Command, *protocol.Error) {
	kind, ok := t.Route(msg.Addr)
	if !ok {
		return protocol.Command{}, protocol.NewError(
			protocol.CodeUnknownCommand, "no handler for address %q", msg.Addr)
	}

	cmd := protocol.Command{Kind: kind, Backend: t.backend, Addr: msg.Addr}
	switch kind {
	case protocol.KindInit:
		return t.interpretInit(cmd, msg.Args)
	case protocol.KindApplyGate:
		return t.interpretGate(cmd, msg.Args)
	case protocol.KindMeasure:
		return t.interpretMeasure(cmd, msg.Args)
	default:
		if len(msg.Args) != 0 {
			return protocol.Command{}, protocol.NewArgError(
				protocol.CodeInvalidArguments, 0,
				"%s takes no arguments, got %d", kind, len(msg.Args))
		}
		return cmd, nil
	}
}

func (t Table) interpretInit(cmd protocol.Command, args []osc.Arg) (protocol.Command, *protocol.Error) {
	if len(args) != 1 {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeInvalidArguments, 0,
			"init expects exactly one int32 qubit count, got %d args", len(args))
	}
	n, err := args[0].Int32()
	if err != nil {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeInvalidArguments, 0, "qubit count must be int32")
	}
	if n < 1 || int(n) > t.maxQubits {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeOutOfRange, 0,
			"qubit count %d outside [1, %d]", n, t.maxQubits)
	}
	cmd.QubitCount = int(n)
	return cmd, nil
}

func (t Table) interpretGate(cmd protocol.Command, args []osc.Arg) (protocol.Command, *protocol.Error) {
	if len(args) == 0 {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeInvalidArguments, 0, "gate expects a gate id string")
	}
	gate, err := args[0].String()
	if err != nil {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeInvalidArguments, 0, "gate id must be a string")
	}
	if strings.TrimSpace(gate) == "" {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeInvalidArguments, 0, "gate id must not be empty")
	}
	cmd.Gate = gate

	for i, arg := range args[1:] {
		switch arg.Type {
		case osc.TypeInt32:
			q, _ := arg.Int32()
			cmd.Qubits = append(cmd.Qubits, int(q))
		case osc.TypeFloat32:
			p, _ := arg.Float32()
			cmd.Params = append(cmd.Params, float64(p))
		default:
			return protocol.Command{}, protocol.NewArgError(
				protocol.CodeInvalidArguments, i+1,
				"gate argument must be int32 qubit or float32 param")
		}
	}
	if len(cmd.Qubits) == 0 {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeInvalidArguments, 1, "gate expects at least one qubit index")
	}
	return cmd, nil
}

func (t Table) interpretMeasure(cmd protocol.Command, args []osc.Arg) (protocol.Command, *protocol.Error) {
	if len(args) == 0 {
		return protocol.Command{}, protocol.NewArgError(
			protocol.CodeInvalidArguments, 0, "measure expects at least one qubit index")
	}
	for i, arg := range args {
		q, err := arg.Int32()
		if err != nil {
			return protocol.Command{}, protocol.NewArgError(
				protocol.CodeInvalidArguments, i, "qubit index must be int32")
		}
		cmd.Qubits = append(cmd.Qubits, int(q))
	}
	return cmd, nil
}

// CheckQubitRange enforces 0 <= index < qubitCount for every index a
// command references. Called at execution admission against the live
// session register size.
func CheckQubitRange(cmd protocol.Command, qubitCount int) *protocol.Error {
	for i, q := range cmd.Qubits {
		if q < 0 || q >= qubitCount {
			return protocol.NewArgError(
				protocol.CodeOutOfRange, i,
				"qubit index %d outside register of size %d", q, qubitCount)
		}
	}
	return nil
}
