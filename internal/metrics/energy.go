package metrics

import (
	"math"

	"github.com/san-kum/dynsym/internal/dynamo"
)

// Energy is the mean total energy of a Hamiltonian system over the run.
// Systems without an energy expression report zero.
type Energy struct {
	name    string
	sys     dynamo.Hamiltonian
	samples int
	total   float64
}

func NewEnergy(dyn dynamo.System) *Energy {
	h, _ := dyn.(dynamo.Hamiltonian)
	return &Energy{name: "energy", sys: h}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.sys == nil {
		return
	}
	e.total += e.sys.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the initial energy.
type EnergyDrift struct {
	name     string
	sys      dynamo.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	h, _ := dyn.(dynamo.Hamiltonian)
	return &EnergyDrift{name: "energy_drift", sys: h}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.sys == nil {
		return
	}
	energy := e.sys.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/math.Abs(e.initial))
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
