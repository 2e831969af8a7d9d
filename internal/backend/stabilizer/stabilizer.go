// Package stabilizer implements the "gk" backend: a Gottesman-Knill
// simulator tracking the stabilizer group of the register state in an
// Aaronson-Gottesman tableau. Clifford gates and Z-basis measurement run
// in polynomial time; non-Clifford gates (T, Tdg) are rejected.
package stabilizer

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/qoslab/qregctl/internal/backend"
)

const Name = "gk"

func init() {
	backend.RegisterFactory(Name, func(seed int64) backend.Backend {
		return New(seed)
	})
}

// Backend allocates tableau registers. Each register gets its own RNG
// stream derived from the backend seed so measurement outcomes are
// reproducible per allocation order.
type Backend struct {
	mu     sync.Mutex
	seeder *rand.Rand
}

func New(seed int64) *Backend {
	return &Backend{seeder: rand.New(rand.NewSource(seed))}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Allocate(qubitCount int) (backend.Register, error) {
	if qubitCount < 1 {
		return nil, fmt.Errorf("stabilizer: invalid qubit count %d", qubitCount)
	}
	b.mu.Lock()
	seed := b.seeder.Int63()
	b.mu.Unlock()
	return newTableau(qubitCount, seed), nil
}

// Tableau holds n destabilizer rows, n stabilizer rows, and one scratch
// row used during deterministic measurement.
type Tableau struct {
	n   int
	x   [][]bool
	z   [][]bool
	r   []bool
	rng *rand.Rand
}

func newTableau(n int, seed int64) *Tableau {
	t := &Tableau{n: n, rng: rand.New(rand.NewSource(seed))}
	t.zero()
	return t
}

func (t *Tableau) zero() {
	rows := 2*t.n + 1
	t.x = make([][]bool, rows)
	t.z = make([][]bool, rows)
	t.r = make([]bool, rows)
	for i := 0; i < rows; i++ {
		t.x[i] = make([]bool, t.n)
		t.z[i] = make([]bool, t.n)
	}
	for i := 0; i < t.n; i++ {
		t.x[i][i] = true     // destabilizer X_i
		t.z[t.n+i][i] = true // stabilizer Z_i
	}
}

func (t *Tableau) QubitCount() int { return t.n }

func (t *Tableau) Reset() error {
	t.zero()
	return nil
}

func (t *Tableau) ApplyGate(gate string, qubits []int, params []float64) error {
	if len(params) != 0 {
		return fmt.Errorf("%w: gate %s takes no parameters", backend.ErrBadArity, gate)
	}
	switch gate {
	case backend.GateX, backend.GateY, backend.GateZ,
		backend.GateH, backend.GateS, backend.GateSdg:
		if len(qubits) != 1 {
			return fmt.Errorf("%w: gate %s expects 1 qubit, got %d",
				backend.ErrBadArity, gate, len(qubits))
		}
	case backend.GateCX, backend.GateCZ:
		if len(qubits) != 2 {
			return fmt.Errorf("%w: gate %s expects 2 qubits, got %d",
				backend.ErrBadArity, gate, len(qubits))
		}
		if qubits[0] == qubits[1] {
			return fmt.Errorf("%w: gate %s requires distinct qubits",
				backend.ErrBadArity, gate)
		}
	case backend.GateT, backend.GateTdg:
		return fmt.Errorf("%w: %s is not a Clifford gate", backend.ErrUnsupportedGate, gate)
	default:
		return fmt.Errorf("%w: %q", backend.ErrUnsupportedGate, gate)
	}

	switch gate {
	case backend.GateX:
		t.gateX(qubits[0])
	case backend.GateY:
		t.gateY(qubits[0])
	case backend.GateZ:
		t.gateZ(qubits[0])
	case backend.GateH:
		t.gateH(qubits[0])
	case backend.GateS:
		t.gateS(qubits[0])
	case backend.GateSdg:
		// Sdg = Z . S up to global phase.
		t.gateZ(qubits[0])
		t.gateS(qubits[0])
	case backend.GateCX:
		t.gateCX(qubits[0], qubits[1])
	case backend.GateCZ:
		t.gateH(qubits[1])
		t.gateCX(qubits[0], qubits[1])
		t.gateH(qubits[1])
	}
	return nil
}

func (t *Tableau) Measure(qubits []int) ([]byte, error) {
	out := make([]byte, len(qubits))
	for i, q := range qubits {
		if q < 0 || q >= t.n {
			return nil, fmt.Errorf("stabilizer: qubit %d outside register of size %d", q, t.n)
		}
		if t.measureOne(q) {
			out[i] = 1
		}
	}
	return out, nil
}

func (t *Tableau) gateH(q int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] = t.r[i] != (t.x[i][q] && t.z[i][q])
		t.x[i][q], t.z[i][q] = t.z[i][q], t.x[i][q]
	}
}

func (t *Tableau) gateS(q int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] = t.r[i] != (t.x[i][q] && t.z[i][q])
		t.z[i][q] = t.z[i][q] != t.x[i][q]
	}
}

func (t *Tableau) gateX(q int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] = t.r[i] != t.z[i][q]
	}
}

func (t *Tableau) gateZ(q int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] = t.r[i] != t.x[i][q]
	}
}

func (t *Tableau) gateY(q int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] = t.r[i] != (t.x[i][q] != t.z[i][q])
	}
}

func (t *Tableau) gateCX(c, q int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] = t.r[i] != (t.x[i][c] && t.z[i][q] && (t.x[i][q] == t.z[i][c]))
		t.x[i][q] = t.x[i][q] != t.x[i][c]
		t.z[i][c] = t.z[i][c] != t.z[i][q]
	}
}

// measureOne performs a destructive Z measurement of qubit a following
// the Aaronson-Gottesman update rules.
func (t *Tableau) measureOne(a int) bool {
	p := -1
	for i := t.n; i < 2*t.n; i++ {
		if t.x[i][a] {
			p = i
			break
		}
	}

	if p >= 0 {
		// Outcome is random: the stabilizer row p anticommutes with Z_a.
		for i := 0; i < 2*t.n; i++ {
			if i != p && t.x[i][a] {
				t.rowmult(i, p)
			}
		}
		copy(t.x[p-t.n], t.x[p])
		copy(t.z[p-t.n], t.z[p])
		t.r[p-t.n] = t.r[p]
		for q := 0; q < t.n; q++ {
			t.x[p][q] = false
			t.z[p][q] = false
		}
		t.z[p][a] = true
		t.r[p] = t.rng.Intn(2) == 1
		return t.r[p]
	}

	// Outcome is deterministic: accumulate the stabilizer product fixing
	// Z_a into the scratch row.
	scratch := 2 * t.n
	for q := 0; q < t.n; q++ {
		t.x[scratch][q] = false
		t.z[scratch][q] = false
	}
	t.r[scratch] = false
	for i := 0; i < t.n; i++ {
		if t.x[i][a] {
			t.rowmult(scratch, i+t.n)
		}
	}
	return t.r[scratch]
}

// rowmult left-multiplies row h by row i, tracking the group phase.
func (t *Tableau) rowmult(h, i int) {
	sum := 0
	if t.r[h] {
		sum += 2
	}
	if t.r[i] {
		sum += 2
	}
	for q := 0; q < t.n; q++ {
		sum += phaseExp(t.x[i][q], t.z[i][q], t.x[h][q], t.z[h][q])
	}
	t.r[h] = ((sum%4)+4)%4 == 2
	for q := 0; q < t.n; q++ {
		t.x[h][q] = t.x[h][q] != t.x[i][q]
		t.z[h][q] = t.z[h][q] != t.z[i][q]
	}
}

// phaseExp is the exponent of i contributed when the Pauli (x1,z1)
// multiplies (x2,z2) in one tensor slot.
func phaseExp(x1, z1, x2, z2 bool) int {
	switch {
	case !x1 && !z1: // I
		return 0
	case x1 && z1: // Y
		return b2i(z2) - b2i(x2)
	case x1: // X
		return b2i(z2) * (2*b2i(x2) - 1)
	default: // Z
		return b2i(x2) * (1 - 2*b2i(z2))
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
