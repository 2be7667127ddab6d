// Package dynamo provides the numeric simulation core for symbolic systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Controller]: feedback controller producing the specified inputs
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	m, _ := models.Builtin("pendulum")
//	sys, _ := m.System()
//	sim := dynamo.New(sys, integrators.NewRK4(), control.NewNone(sys.ControlDim()))
//	result, _ := sim.Run(ctx, sys.InitialState(), cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations,
// use the [Ensemble] type, which builds one simulator per run.
package dynamo
