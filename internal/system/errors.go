package system

import "errors"

var (
	ErrNoStates = errors.New("system: no states")

	// ErrNotDynamic indicates a state that is not a function of time alone.
	ErrNotDynamic = errors.New("system: state is not a time-varying quantity")

	ErrDuplicateState = errors.New("system: duplicate state")

	// ErrImplicit indicates a right-hand side containing a time derivative,
	// which would need a mass-matrix formulation.
	ErrImplicit = errors.New("system: right-hand side contains a derivative")

	ErrUnknownName = errors.New("system: unknown name")

	ErrMissingConstant = errors.New("system: constant has no value")
)
