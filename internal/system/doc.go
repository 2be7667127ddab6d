// Package system assembles a symbolic explicit ODE, d/dt states[i] = rhs[i],
// into something the numeric core can integrate.
//
// The quantities the right-hand sides depend on are discovered with the
// dynamics extractor: time-varying quantities that are not states become
// specified inputs, and the remaining free symbols become constants.
package system
