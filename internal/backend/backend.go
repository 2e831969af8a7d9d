// Package backend defines the uniform operation contract between the
// session layer and a concrete quantum-state simulator. The core depends
// only on this interface; simulator internals are opaque and selected
// once at process composition.
package backend

import "errors"

var (
	ErrUnsupportedGate = errors.New("backend: unsupported gate")
	ErrBadArity        = errors.New("backend: wrong qubit arity for gate")
	ErrUnknownBackend  = errors.New("backend: unknown backend name")
)

// Gate identifiers shared by all backends.
const (
	GateX   = "X"
	GateY   = "Y"
	GateZ   = "Z"
	GateH   = "H"
	GateS   = "S"
	GateSdg = "Sdg"
	GateT   = "T"
	GateTdg = "Tdg"
	GateCX  = "CX"
	GateCZ  = "CZ"
)

// Backend allocates registers for one simulator variant.
type Backend interface {
	// Name is the address namespace segment this backend serves.
	Name() string
	// Allocate creates a fresh register of qubitCount qubits in |0...0>.
	Allocate(qubitCount int) (Register, error)
}

// Register is one simulated qubit register. Implementations are not safe
// for concurrent use; the session layer serializes access.
type Register interface {
	QubitCount() int
	// ApplyGate applies one named gate to the given qubits with optional
	// continuous parameters. Qubit indices are pre-validated by the caller.
	ApplyGate(gate string, qubits []int, params []float64) error
	// Measure performs a destructive Z-basis measurement of the given
	// qubits, returning one byte (0 or 1) per qubit in input order.
	Measure(qubits []int) ([]byte, error)
	// Reset returns the register to |0...0>.
	Reset() error
}
