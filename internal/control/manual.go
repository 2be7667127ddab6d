package control

import (
	"sync"

	"github.com/san-kum/dynsym/internal/dynamo"
)

// Manual returns inputs set from another goroutine, such as key presses
// in the live viewer.
type Manual struct {
	mu sync.Mutex
	u  dynamo.Control
}

func NewManual(dim int) *Manual {
	return &Manual{u: make(dynamo.Control, dim)}
}

// Nudge adds delta to input i. Out-of-range indices are ignored.
func (m *Manual) Nudge(i int, delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= 0 && i < len(m.u) {
		m.u[i] += delta
	}
}

// Set replaces the inputs; extra values are dropped.
func (m *Manual) Set(u []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.u, u)
}

func (m *Manual) Compute(x dynamo.State, t float64) dynamo.Control {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(dynamo.Control, len(m.u))
	copy(out, m.u)
	return out
}
