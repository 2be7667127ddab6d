package control

import (
	"fmt"

	"github.com/san-kum/dynsym/internal/dynamo"
)

// PID regulates state component Index towards Target through the first
// specified input. The remaining inputs stay at zero.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	Index  int

	dim      int
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(dim, index int, kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Index:  index,
		dim:    dim,
		first:  true,
	}
}

func (p *PID) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, p.dim)
	if p.dim == 0 || p.Index < 0 || p.Index >= len(x) {
		return u
	}

	err := p.Target - x[p.Index]

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		u[0] = p.Kp * err
		return u
	}

	dt := t - p.prevT
	if dt <= 0 {
		u[0] = p.Kp*err + p.Ki*p.integral
		return u
	}
	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	p.prevT = t

	u[0] = p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	return u
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	default:
		return fmt.Errorf("pid: unknown parameter %q", name)
	}
	return nil
}
