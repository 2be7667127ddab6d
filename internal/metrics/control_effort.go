package metrics

import (
	"math"

	"github.com/san-kum/dynsym/internal/dynamo"
)

// ControlEffort is the mean absolute specified input per step.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Default returns the metrics recorded for every run.
func Default(dyn dynamo.System) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(dyn),
		NewEnergyDrift(dyn),
		NewStability(100.0),
		NewControlEffort(),
		NewDeviation(),
	}
}
