// Package delay provides the interpolated delay line behind the delay-based
// effects and the delay-line physical models.
package delay

// Line is a circular delay buffer with linear-interpolated fractional reads.
type Line struct {
	buffer   []float64
	size     int
	writePos int
}

// New creates a delay line holding up to maxDelaySeconds of audio.
func New(maxDelaySeconds, sampleRate float64) *Line {
	size := int(maxDelaySeconds*sampleRate) + 2
	return &Line{
		buffer: make([]float64, size),
		size:   size,
	}
}

// NewSamples creates a delay line of an exact size in samples.
func NewSamples(samples int) *Line {
	if samples < 2 {
		samples = 2
	}
	return &Line{buffer: make([]float64, samples), size: samples}
}

// Reset clears the buffer.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Write pushes a sample into the line.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= d.size {
		d.writePos = 0
	}
}

// Read returns the sample delaySamples behind the write position, with
// linear interpolation for fractional delays. The delay is clamped to the
// buffer size.
func (d *Line) Read(delaySamples float64) float64 {
	if delaySamples < 0 {
		delaySamples = 0
	}
	max := float64(d.size - 2)
	if delaySamples > max {
		delaySamples = max
	}

	readPos := float64(d.writePos) - delaySamples
	if readPos < 0 {
		readPos += float64(d.size)
	}

	idx := int(readPos)
	frac := readPos - float64(idx)
	s1 := d.buffer[idx%d.size]
	s2 := d.buffer[(idx+1)%d.size]
	return s1*(1.0-frac) + s2*frac
}
