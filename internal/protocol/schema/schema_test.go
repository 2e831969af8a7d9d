package schema

import (
	"testing"

	"github.com/qoslab/qregctl/internal/protocol"
	"github.com/qoslab/qregctl/internal/protocol/osc"
)

func TestRoute(t *testing.T) {
	table := NewTable("gk", 16)

	cases := []struct {
		addr string
		kind protocol.CommandKind
		ok   bool
	}{
		{"/gk/init", protocol.KindInit, true},
		{"/gk/gate", protocol.KindApplyGate, true},
		{"/gk/measure", protocol.KindMeasure, true},
		{"/gk/reset", protocol.KindReset, true},
		{"/gk/query", protocol.KindQuery, true},
		{"/gk/teleport", 0, false},
		{"/steane/init", 0, false},
		{"/gk", 0, false},
		{"/gk/init/extra", 0, false},
	}
	for _, tc := range cases {
		kind, ok := table.Route(tc.addr)
		if ok != tc.ok || (ok && kind != tc.kind) {
			t.Fatalf("route %q: got (%v, %v), want (%v, %v)", tc.addr, kind, ok, tc.kind, tc.ok)
		}
	}
}

func TestInterpretInit(t *testing.T) {
	table := NewTable("gk", 8)

	cmd, perr := table.Interpret(osc.Message{Addr: "/gk/init", Args: []osc.Arg{osc.Int32(3)}})
	if perr != nil {
		t.Fatalf("interpret init: %v", perr)
	}
	if cmd.Kind != protocol.KindInit || cmd.QubitCount != 3 {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	bad := []struct {
		args []osc.Arg
		code protocol.ErrorCode
	}{
		{nil, protocol.CodeInvalidArguments},
		{[]osc.Arg{osc.Int32(1), osc.Int32(2)}, protocol.CodeInvalidArguments},
		{[]osc.Arg{osc.String("3")}, protocol.CodeInvalidArguments},
		{[]osc.Arg{osc.Int32(0)}, protocol.CodeOutOfRange},
		{[]osc.Arg{osc.Int32(9)}, protocol.CodeOutOfRange},
		{[]osc.Arg{osc.Int32(-1)}, protocol.CodeOutOfRange},
	}
	for i, tc := range bad {
		_, perr := table.Interpret(osc.Message{Addr: "/gk/init", Args: tc.args})
		if perr == nil || perr.Code != tc.code {
			t.Fatalf("case %d: expected %s, got %v", i, tc.code, perr)
		}
	}
}

func TestInterpretGate(t *testing.T) {
	table := NewTable("gk", 8)

	cmd, perr := table.Interpret(osc.Message{Addr: "/gk/gate", Args: []osc.Arg{
		osc.String("CX"), osc.Int32(0), osc.Int32(2), osc.Float32(0.25),
	}})
	if perr != nil {
		t.Fatalf("interpret gate: %v", perr)
	}
	if cmd.Gate != "CX" {
		t.Fatalf("unexpected gate id %q", cmd.Gate)
	}
	if len(cmd.Qubits) != 2 || cmd.Qubits[0] != 0 || cmd.Qubits[1] != 2 {
		t.Fatalf("unexpected qubits %v", cmd.Qubits)
	}
	if len(cmd.Params) != 1 || cmd.Params[0] != 0.25 {
		t.Fatalf("unexpected params %v", cmd.Params)
	}

	cases := []struct {
		name string
		args []osc.Arg
		arg  int
	}{
		{"no args", nil, 0},
		{"gate id not string", []osc.Arg{osc.Int32(1)}, 0},
		{"empty gate id", []osc.Arg{osc.String("  ")}, 0},
		{"no qubits", []osc.Arg{osc.String("X")}, 1},
		{"blob operand", []osc.Arg{osc.String("X"), osc.Blob([]byte{1})}, 1},
	}
	for _, tc := range cases {
		_, perr := table.Interpret(osc.Message{Addr: "/gk/gate", Args: tc.args})
		if perr == nil || perr.Code != protocol.CodeInvalidArguments {
			t.Fatalf("%s: expected invalid_arguments, got %v", tc.name, perr)
		}
		if perr.ArgIndex != tc.arg {
			t.Fatalf("%s: expected arg index %d, got %d", tc.name, tc.arg, perr.ArgIndex)
		}
	}
}

func TestInterpretMeasure(t *testing.T) {
	table := NewTable("steane", 8)

	cmd, perr := table.Interpret(osc.Message{Addr: "/steane/measure", Args: []osc.Arg{
		osc.Int32(0), osc.Int32(1),
	}})
	if perr != nil {
		t.Fatalf("interpret measure: %v", perr)
	}
	if len(cmd.Qubits) != 2 {
		t.Fatalf("unexpected qubits %v", cmd.Qubits)
	}

	if _, perr := table.Interpret(osc.Message{Addr: "/steane/measure"}); perr == nil {
		t.Fatalf("expected error for empty measure")
	}
	_, perr = table.Interpret(osc.Message{Addr: "/steane/measure", Args: []osc.Arg{
		osc.Int32(0), osc.Float32(1),
	}})
	if perr == nil || perr.ArgIndex != 1 {
		t.Fatalf("expected arg index 1, got %v", perr)
	}
}

func TestInterpretZeroArgOps(t *testing.T) {
	table := NewTable("gk", 8)

	for _, op := range []string{OpReset, OpQuery} {
		if _, perr := table.Interpret(osc.Message{Addr: "/gk/" + op}); perr != nil {
			t.Fatalf("%s: %v", op, perr)
		}
		_, perr := table.Interpret(osc.Message{Addr: "/gk/" + op, Args: []osc.Arg{osc.Int32(1)}})
		if perr == nil || perr.Code != protocol.CodeInvalidArguments {
			t.Fatalf("%s with args: expected invalid_arguments, got %v", op, perr)
		}
	}
}

func TestInterpretUnknownAddress(t *testing.T) {
	table := NewTable("gk", 8)
	_, perr := table.Interpret(osc.Message{Addr: "/other/init", Args: []osc.Arg{osc.Int32(1)}})
	if perr == nil || perr.Code != protocol.CodeUnknownCommand {
		t.Fatalf("expected unknown_command, got %v", perr)
	}
}

func TestCheckQubitRange(t *testing.T) {
	cmd := protocol.Command{Kind: protocol.KindApplyGate, Gate: "CX", Qubits: []int{0, 2}}
	if perr := CheckQubitRange(cmd, 3); perr != nil {
		t.Fatalf("in-range command rejected: %v", perr)
	}
	perr := CheckQubitRange(cmd, 2)
	if perr == nil || perr.Code != protocol.CodeOutOfRange || perr.ArgIndex != 1 {
		t.Fatalf("expected out_of_range at arg 1, got %v", perr)
	}
	if perr := CheckQubitRange(protocol.Command{Qubits: []int{-1}}, 2); perr == nil {
		t.Fatalf("expected out_of_range for negative index")
	}
}
