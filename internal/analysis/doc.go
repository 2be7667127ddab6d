// Package analysis characterizes trajectories.
//
//   - [FFT], [PowerSpectrum] and [DominantFrequency] for recorded signals
//   - [LargestLyapunov]: largest Lyapunov exponent by Benettin renormalization
//   - [Portrait] and [Poincare]: 2D phase portraits and sections
//   - [RenderASCII] and [WriteSVG]: terminal scatter plot and SVG path of a point set
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LargestLyapunov(ctx, sys, integ, x0, dt, duration, 1e-8)
//	if err == nil && lambda > 0 {
//	    // System is chaotic
//	}
package analysis
