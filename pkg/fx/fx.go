// Package fx implements the stateful master effects. Every effect is a
// render-scoped stereo processor constructed fresh per render; nothing is
// shared between instances or across renders. Effects run strictly in
// declaration order.
package fx

import (
	"fmt"

	"github.com/SpecCade/SpecCade-sub003/pkg/rng"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// Processor is one effect in the master chain. Process mutates the stereo
// buffers in place; both channels always have the same length.
type Processor interface {
	Process(left, right []float64)
}

// Curves carries the precomputed post-FX modulation offsets, one value per
// sample, keyed by target. A nil slice means the target is unmodulated.
// Every compatible effect in the chain reads the same slice, so effects
// sharing a target stay time-aligned.
type Curves struct {
	// DelayTime offsets a delay-family time_ms parameter, in milliseconds.
	DelayTime []float64
	// ReverbSize offsets the reverb room_size parameter.
	ReverbSize []float64
	// DistortionDrive offsets a distortion drive parameter.
	DistortionDrive []float64
}

func (c *Curves) delayTimeAt(i int) float64 {
	return curveAt(c, i, func(c *Curves) []float64 { return c.DelayTime })
}

func (c *Curves) reverbSizeAt(i int) float64 {
	return curveAt(c, i, func(c *Curves) []float64 { return c.ReverbSize })
}

func (c *Curves) driveAt(i int) float64 {
	return curveAt(c, i, func(c *Curves) []float64 { return c.DistortionDrive })
}

func curveAt(c *Curves, i int, pick func(*Curves) []float64) float64 {
	if c == nil {
		return 0
	}
	curve := pick(c)
	if curve == nil || i < 0 || i >= len(curve) {
		return 0
	}
	return curve[i]
}

// New builds one effect processor. The stream is the effect's own derived
// random stream; only effects with a stochastic element (tape hiss, granular
// delay jitter) consume it.
func New(e *spec.Effect, sampleRate float64, stream *rng.Stream, curves *Curves) (Processor, error) {
	switch e.Type {
	case "delay":
		return newDelay(e, sampleRate, curves), nil
	case "multi_tap_delay":
		return newMultiTapDelay(e, sampleRate, curves), nil
	case "flanger":
		return newFlanger(e, sampleRate, curves), nil
	case "chorus":
		return newChorus(e, sampleRate), nil
	case "phaser":
		return newPhaser(e, sampleRate), nil
	case "granular_delay":
		return newGranularDelay(e, sampleRate, stream, curves), nil
	case "reverb":
		return newReverb(e, sampleRate, curves), nil
	case "compressor":
		return newCompressor(e, sampleRate), nil
	case "limiter":
		return newLimiter(e, sampleRate), nil
	case "gate":
		return newGate(e, sampleRate), nil
	case "transient_shaper":
		return newTransientShaper(e, sampleRate), nil
	case "waveshaper":
		return newWaveshaper(e, sampleRate, curves), nil
	case "bitcrush":
		return newBitcrush(e), nil
	case "tape_saturation":
		return newTapeSaturation(e, sampleRate, stream, curves), nil
	case "stereo_widener":
		return newStereoWidener(e, sampleRate, curves), nil
	case "rotary_speaker":
		return newRotarySpeaker(e, sampleRate), nil
	case "parametric_eq":
		return newParametricEQ(e, sampleRate), nil
	case "cabinet_sim":
		return newCabinetSim(e, sampleRate), nil
	case "auto_filter":
		return newAutoFilter(e, sampleRate), nil
	case "ring_mod":
		return newRingMod(e, sampleRate), nil
	}
	return nil, fmt.Errorf("unknown effect type %q", e.Type)
}

// Chain is an ordered list of processors applied back to back.
type Chain struct {
	procs []Processor
}

// NewChain builds the full effects chain. Each effect gets its own derived
// stream at path ("fx", index) so no two effects share randomness.
func NewChain(effects []spec.Effect, sampleRate float64, seed uint32, curves *Curves) (*Chain, error) {
	ch := &Chain{procs: make([]Processor, 0, len(effects))}
	for i := range effects {
		stream := rng.Derive(seed, "fx", fmt.Sprintf("%d", i))
		p, err := New(&effects[i], sampleRate, stream, curves)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		ch.procs = append(ch.procs, p)
	}
	return ch, nil
}

// Process runs the chain in declaration order.
func (ch *Chain) Process(left, right []float64) {
	for _, p := range ch.procs {
		p.Process(left, right)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func defaultIfZero(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
