package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrBadArgument = errors.New("analysis: bad argument")

// FFT returns the discrete Fourier transform of data, zero-padded to the
// next power of two.
func FFT(data []float64) []complex128 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	x := make([]float64, n)
	copy(x, data)
	return fft.FFTReal(x)
}

// PowerSpectrum returns the magnitudes of the non-negative frequency bins.
func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit time, of the
// strongest non-constant component of samples taken dt apart.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples, got %d", ErrBadArgument, len(samples))
	}
	if dt <= 0 {
		return 0, fmt.Errorf("%w: dt must be positive", ErrBadArgument)
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt), nil
}
