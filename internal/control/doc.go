// Package control provides controllers that drive the specified inputs of a
// symbolic system.
//
// Controllers implement the [dynamo.Controller] interface and return one
// value per specified quantity, in the system's input order:
//
//   - [PID]: Proportional-Integral-Derivative on one state component
//   - [LQR]: full state feedback with a fixed gain matrix
//   - [Manual]: inputs set from outside, for the live viewer
//   - [None]: zero inputs
//
// # Usage
//
//	pid := control.NewPID(sys.ControlDim(), 0, 10, 0.1, 5, 0)
//	sim := dynamo.New(sys, integ, pid)
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package control
