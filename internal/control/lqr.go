package control

import (
	"fmt"

	"github.com/san-kum/dynsym/internal/dynamo"
)

// LQR applies u = -K (x - target). K has one row per specified input and
// one column per state.
type LQR struct {
	K      [][]float64
	Target dynamo.State
}

// NewLQR checks the gain matrix against the system dimensions.
func NewLQR(k [][]float64, target dynamo.State, stateDim, controlDim int) (*LQR, error) {
	if len(k) != controlDim {
		return nil, fmt.Errorf("%w: lqr gain has %d rows, system has %d inputs", dynamo.ErrDimensionMismatch, len(k), controlDim)
	}
	for i, row := range k {
		if len(row) != stateDim {
			return nil, fmt.Errorf("%w: lqr gain row %d has %d columns, system has %d states", dynamo.ErrDimensionMismatch, i, len(row), stateDim)
		}
	}
	if target == nil {
		target = make(dynamo.State, stateDim)
	}
	if len(target) != stateDim {
		return nil, fmt.Errorf("%w: lqr target has %d components, system has %d states", dynamo.ErrDimensionMismatch, len(target), stateDim)
	}
	return &LQR{K: k, Target: target}, nil
}

func (l *LQR) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, len(l.K))
	for i, row := range l.K {
		for j, gain := range row {
			if j < len(x) {
				u[i] -= gain * (x[j] - l.Target[j])
			}
		}
	}
	return u
}
