package filter

import "math"

// DCBlock is a first-order highpass with a very low corner, used after
// asymmetric nonlinearities that push DC into the signal.
//
//	y[n] = x[n] - x[n-1] + R * y[n-1]
type DCBlock struct {
	x1, y1 float64
	coef   float64
}

// NewDCBlock creates a blocker with roughly a 10 Hz corner.
func NewDCBlock(sampleRate float64) *DCBlock {
	r := 1.0 - 2.0*math.Pi*10.0/sampleRate
	if r < 0.9 {
		r = 0.9
	} else if r > 0.999 {
		r = 0.999
	}
	return &DCBlock{coef: r}
}

// Tick filters one sample.
func (dc *DCBlock) Tick(input float64) float64 {
	out := input - dc.x1 + dc.coef*dc.y1
	dc.x1 = input
	dc.y1 = out
	return out
}

// Reset clears the state.
func (dc *DCBlock) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}
