package integrators

import "github.com/san-kum/dynsym/internal/dynamo"

// The symplectic methods below assume the state is laid out as coordinates
// followed by their speeds, [q..., q'...], which is how symbolic systems
// order second-order models.

// Verlet is velocity Verlet.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	acc := dyn.Derive(x, u, t)
	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*acc[half+i]*dt*dt
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	accNew := dyn.Derive(v.scratch, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + 0.5*(acc[half+i]+accNew[half+i])*dt
	}
	return result
}

// Leapfrog is the kick-drift-kick scheme.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	acc := dyn.Derive(x, u, t)
	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + 0.5*acc[half+i]*dt
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	accNew := dyn.Derive(l.scratch, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + 0.5*accNew[half+i]*dt
	}
	return result
}
