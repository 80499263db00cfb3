// Package fourier provides the radix-2 FFT behind spectral-freeze synthesis.
// Transforms run on fixed-size pre-allocated tables, so repeated frames
// cause no per-call table churn.
package fourier

import (
	"math"
	"math/cmplx"
)

// FFT computes forward and inverse transforms of one power-of-two length.
type FFT struct {
	size       int
	bitReverse []int
	twiddle    []complex128
}

// New creates an FFT for the given power-of-two size.
func New(size int) *FFT {
	return &FFT{
		size:       size,
		bitReverse: makeBitReverseTable(size),
		twiddle:    makeTwiddleTable(size),
	}
}

// Size returns the transform length.
func (f *FFT) Size() int {
	return f.size
}

func makeBitReverseTable(n int) []int {
	table := make([]int, n)
	for i := range table {
		rev := 0
		for k, m := i, n; m > 1; m >>= 1 {
			rev = rev<<1 | k&1
			k >>= 1
		}
		table[i] = rev
	}
	return table
}

func makeTwiddleTable(n int) []complex128 {
	table := make([]complex128, n)
	w := -2.0 * math.Pi / float64(n)
	for i := range table {
		table[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return table
}

// Forward computes the in-place forward transform. len(x) must equal Size.
func (f *FFT) Forward(x []complex128) {
	f.transform(x, false)
}

// Inverse computes the in-place inverse transform including the 1/N scale.
func (f *FFT) Inverse(x []complex128) {
	f.transform(x, true)
	scale := complex(1.0/float64(f.size), 0)
	for i := range x {
		x[i] *= scale
	}
}

func (f *FFT) transform(x []complex128, inverse bool) {
	n := f.size
	for i := 0; i < n; i++ {
		rev := f.bitReverse[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m <<= 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			idx := n / step * k
			if inverse {
				idx = (n - idx) % n
			}
			w := f.twiddle[idx]
			for i := k; i < n; i += step {
				j := i + m
				t := x[j] * w
				x[j] = x[i] - t
				x[i] = x[i] + t
			}
		}
	}
}

// HannWindow applies a Hann window in place.
func HannWindow(x []float64) {
	n := float64(len(x))
	for i := range x {
		w := 0.5 - 0.5*math.Cos(2.0*math.Pi*float64(i)/n)
		x[i] *= w
	}
}

// HannValue returns the Hann window value at index i of a window of length n.
func HannValue(i, n int) float64 {
	return 0.5 - 0.5*math.Cos(2.0*math.Pi*float64(i)/float64(n))
}
