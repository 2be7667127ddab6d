package metrics

import "github.com/san-kum/dynsym/internal/dynamo"

// Deviation is the mean Euclidean distance of the state from the origin.
// Regulating controllers drive it down.
type Deviation struct {
	name    string
	sum     float64
	samples int
}

func NewDeviation() *Deviation {
	return &Deviation{name: "deviation"}
}

func (d *Deviation) Name() string { return d.name }

func (d *Deviation) Observe(x dynamo.State, u dynamo.Control, t float64) {
	d.sum += x.Norm()
	d.samples++
}

func (d *Deviation) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *Deviation) Reset() {
	d.sum = 0
	d.samples = 0
}
