package filter

// Comb implements a single-tap feedback comb filter mixed at a wet level.
// Feedback is clamped below unity to keep the loop stable.
type Comb struct {
	buffer   []float64
	writePos int
	feedback float64
	wet      float64
}

// MaxCombFeedback is the stability ceiling for the feedback coefficient.
const MaxCombFeedback = 0.99

// NewComb creates a comb filter with the given delay in samples.
func NewComb(delaySamples int) *Comb {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &Comb{
		buffer: make([]float64, delaySamples),
		wet:    1.0,
	}
}

// SetFeedback sets the feedback coefficient, clamped to MaxCombFeedback.
func (c *Comb) SetFeedback(fb float64) {
	if fb > MaxCombFeedback {
		fb = MaxCombFeedback
	}
	if fb < -MaxCombFeedback {
		fb = -MaxCombFeedback
	}
	c.feedback = fb
}

// SetWet sets the wet mix in [0,1].
func (c *Comb) SetWet(wet float64) {
	if wet < 0 {
		wet = 0
	}
	if wet > 1 {
		wet = 1
	}
	c.wet = wet
}

// Reset clears the delay buffer.
func (c *Comb) Reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.writePos = 0
}

// Tick processes one sample.
func (c *Comb) Tick(input float64) float64 {
	delayed := c.buffer[c.writePos]
	c.buffer[c.writePos] = input + delayed*c.feedback
	c.writePos++
	if c.writePos >= len(c.buffer) {
		c.writePos = 0
	}
	return input*(1.0-c.wet) + delayed*c.wet
}

// Process filters a buffer in place.
func (c *Comb) Process(buffer []float64) {
	for i := range buffer {
		buffer[i] = c.Tick(buffer[i])
	}
}
