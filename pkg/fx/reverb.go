package fx

import "github.com/SpecCade/SpecCade-sub003/pkg/spec"

// Freeverb-style tuning, sample counts at 44.1 kHz.
const (
	reverbGain    = 0.015
	scaleRoom     = 0.28
	offsetRoom    = 0.7
	scaleDamp     = 0.4
	reverbSpreadR = 23
)

var reverbCombTuning = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
var reverbAllpassTuning = [4]int{556, 441, 341, 225}

// dampedComb is the lowpass-damped comb section inside the reverb tank.
type dampedComb struct {
	buffer   []float64
	index    int
	filtered float64
	feedback float64
	damp     float64
}

func newDampedComb(size int) *dampedComb {
	if size < 1 {
		size = 1
	}
	return &dampedComb{buffer: make([]float64, size)}
}

func (c *dampedComb) tick(input float64) float64 {
	out := c.buffer[c.index]
	c.filtered = out*(1.0-c.damp) + c.filtered*c.damp
	c.buffer[c.index] = input + c.filtered*c.feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return out
}

// reverbAllpass is the diffusing allpass section of the tank.
type reverbAllpass struct {
	buffer []float64
	index  int
}

func newReverbAllpass(size int) *reverbAllpass {
	if size < 1 {
		size = 1
	}
	return &reverbAllpass{buffer: make([]float64, size)}
}

func (a *reverbAllpass) tick(input float64) float64 {
	buffered := a.buffer[a.index]
	out := buffered - input
	a.buffer[a.index] = input + buffered*0.5
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return out
}

// reverb is the Freeverb tank: eight parallel damped combs into four series
// allpasses per channel, the right channel detuned by a fixed spread. The
// room size can move per sample under a post-FX curve.
type reverb struct {
	roomSize float64
	mix      float64
	combL    [8]*dampedComb
	combR    [8]*dampedComb
	apL      [4]*reverbAllpass
	apR      [4]*reverbAllpass
	curves   *Curves
}

func newReverb(e *spec.Effect, sampleRate float64, curves *Curves) *reverb {
	r := &reverb{
		roomSize: clamp(defaultIfZero(e.RoomSize, 0.5), 0, 1),
		mix:      clamp(defaultIfZero(e.Mix, 0.35), 0, 1),
		curves:   curves,
	}
	damp := clamp(defaultIfZero(e.Damping, 0.5), 0, 1) * scaleDamp
	scale := sampleRate / 44100.0
	for i := range r.combL {
		r.combL[i] = newDampedComb(int(float64(reverbCombTuning[i]) * scale))
		r.combR[i] = newDampedComb(int(float64(reverbCombTuning[i]+reverbSpreadR) * scale))
		r.combL[i].damp = damp
		r.combR[i].damp = damp
	}
	for i := range r.apL {
		r.apL[i] = newReverbAllpass(int(float64(reverbAllpassTuning[i]) * scale))
		r.apR[i] = newReverbAllpass(int(float64(reverbAllpassTuning[i]+reverbSpreadR) * scale))
	}
	r.setFeedback(r.roomSize)
	return r
}

func (r *reverb) setFeedback(roomSize float64) {
	fb := roomSize*scaleRoom + offsetRoom
	for i := range r.combL {
		r.combL[i].feedback = fb
		r.combR[i].feedback = fb
	}
}

func (r *reverb) Process(left, right []float64) {
	modulated := r.curves != nil && r.curves.ReverbSize != nil
	for i := range left {
		if modulated {
			r.setFeedback(clamp(r.roomSize+r.curves.reverbSizeAt(i), 0, 1))
		}
		input := (left[i] + right[i]) * reverbGain

		var wetL, wetR float64
		for c := range r.combL {
			wetL += r.combL[c].tick(input)
			wetR += r.combR[c].tick(input)
		}
		for a := range r.apL {
			wetL = r.apL[a].tick(wetL)
			wetR = r.apR[a].tick(wetR)
		}

		left[i] = left[i]*(1.0-r.mix) + wetL*r.mix
		right[i] = right[i]*(1.0-r.mix) + wetR*r.mix
	}
}
