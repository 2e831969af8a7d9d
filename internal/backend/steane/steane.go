// Package steane implements the "steane" backend: a [[7,1,3]] CSS code
// layer mapping every logical qubit onto seven physical qubits of an
// inner stabilizer tableau. Logical Cliffords are transversal; logical
// measurement is destructive with classical Hamming syndrome decoding.
package steane

import (
	"fmt"

	"github.com/qoslab/qregctl/internal/backend"
	"github.com/qoslab/qregctl/internal/backend/stabilizer"
)

const Name = "steane"

// physPerLogical is the code block size.
const physPerLogical = 7

// Hamming parity checks over physical positions within one block.
// Position i belongs to check k when bit k of i+1 is set.
var checks = [3][]int{
	{0, 2, 4, 6},
	{1, 2, 5, 6},
	{3, 4, 5, 6},
}

func init() {
	backend.RegisterFactory(Name, func(seed int64) backend.Backend {
		return New(seed)
	})
}

type Backend struct {
	inner *stabilizer.Backend
}

func New(seed int64) *Backend {
	return &Backend{inner: stabilizer.New(seed)}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Allocate(qubitCount int) (backend.Register, error) {
	if qubitCount < 1 {
		return nil, fmt.Errorf("steane: invalid qubit count %d", qubitCount)
	}
	phys, err := b.inner.Allocate(qubitCount * physPerLogical)
	if err != nil {
		return nil, err
	}
	reg := &Register{n: qubitCount, phys: phys}
	if err := reg.encodeAll(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Register is one logical register of n code blocks.
type Register struct {
	n    int
	phys backend.Register
}

func (r *Register) QubitCount() int { return r.n }

func (r *Register) Reset() error {
	if err := r.phys.Reset(); err != nil {
		return err
	}
	return r.encodeAll()
}

// encodeAll prepares logical |0> in every block: H on the pivot position
// of each X-type generator, then CX fan-out over the generator support.
func (r *Register) encodeAll() error {
	for q := 0; q < r.n; q++ {
		base := q * physPerLogical
		for _, pivot := range []int{0, 1, 3} {
			if err := r.phys.ApplyGate(backend.GateH, []int{base + pivot}, nil); err != nil {
				return err
			}
		}
		for k, pivot := range []int{0, 1, 3} {
			for _, pos := range checks[k] {
				if pos == pivot {
					continue
				}
				err := r.phys.ApplyGate(backend.GateCX, []int{base + pivot, base + pos}, nil)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Register) ApplyGate(gate string, qubits []int, params []float64) error {
	if len(params) != 0 {
		return fmt.Errorf("%w: gate %s takes no parameters", backend.ErrBadArity, gate)
	}
	switch gate {
	case backend.GateX, backend.GateY, backend.GateZ, backend.GateH:
		if len(qubits) != 1 {
			return fmt.Errorf("%w: gate %s expects 1 qubit, got %d",
				backend.ErrBadArity, gate, len(qubits))
		}
		return r.transversal(gate, qubits[0])
	case backend.GateS:
		// The code is self-dual CSS: transversal Sdg implements logical S.
		if len(qubits) != 1 {
			return fmt.Errorf("%w: gate %s expects 1 qubit, got %d",
				backend.ErrBadArity, gate, len(qubits))
		}
		return r.transversal(backend.GateSdg, qubits[0])
	case backend.GateSdg:
		if len(qubits) != 1 {
			return fmt.Errorf("%w: gate %s expects 1 qubit, got %d",
				backend.ErrBadArity, gate, len(qubits))
		}
		return r.transversal(backend.GateS, qubits[0])
	case backend.GateCX:
		if len(qubits) != 2 {
			return fmt.Errorf("%w: gate %s expects 2 qubits, got %d",
				backend.ErrBadArity, gate, len(qubits))
		}
		if qubits[0] == qubits[1] {
			return fmt.Errorf("%w: gate %s requires distinct qubits",
				backend.ErrBadArity, gate)
		}
		return r.transversalCX(qubits[0], qubits[1])
	case backend.GateCZ:
		if len(qubits) != 2 {
			return fmt.Errorf("%w: gate %s expects 2 qubits, got %d",
				backend.ErrBadArity, gate, len(qubits))
		}
		if qubits[0] == qubits[1] {
			return fmt.Errorf("%w: gate %s requires distinct qubits",
				backend.ErrBadArity, gate)
		}
		if err := r.transversal(backend.GateH, qubits[1]); err != nil {
			return err
		}
		if err := r.transversalCX(qubits[0], qubits[1]); err != nil {
			return err
		}
		return r.transversal(backend.GateH, qubits[1])
	case backend.GateT, backend.GateTdg:
		return fmt.Errorf("%w: %s has no transversal implementation",
			backend.ErrUnsupportedGate, gate)
	default:
		return fmt.Errorf("%w: %q", backend.ErrUnsupportedGate, gate)
	}
}

func (r *Register) transversal(gate string, q int) error {
	base := q * physPerLogical
	for i := 0; i < physPerLogical; i++ {
		if err := r.phys.ApplyGate(gate, []int{base + i}, nil); err != nil {
			return err
		}
	}
	return nil
}

func (r *Register) transversalCX(c, t int) error {
	cBase := c * physPerLogical
	tBase := t * physPerLogical
	for i := 0; i < physPerLogical; i++ {
		if err := r.phys.ApplyGate(backend.GateCX, []int{cBase + i, tBase + i}, nil); err != nil {
			return err
		}
	}
	return nil
}

// Measure destructively measures each logical qubit: all seven physical
// qubits in Z, a single bit flip corrected via the Hamming syndrome, and
// the logical value read out as block parity.
func (r *Register) Measure(qubits []int) ([]byte, error) {
	out := make([]byte, len(qubits))
	for i, q := range qubits {
		if q < 0 || q >= r.n {
			return nil, fmt.Errorf("steane: qubit %d outside register of size %d", q, r.n)
		}
		base := q * physPerLogical
		phys := make([]int, physPerLogical)
		for j := range phys {
			phys[j] = base + j
		}
		bits, err := r.phys.Measure(phys)
		if err != nil {
			return nil, err
		}
		out[i] = decodeBlock(bits)
	}
	return out, nil
}

func decodeBlock(bits []byte) byte {
	syndrome := 0
	for k, positions := range checks {
		parity := byte(0)
		for _, pos := range positions {
			parity ^= bits[pos]
		}
		if parity == 1 {
			syndrome |= 1 << k
		}
	}
	if syndrome != 0 {
		bits[syndrome-1] ^= 1
	}
	logical := byte(0)
	for _, b := range bits {
		logical ^= b
	}
	return logical
}
