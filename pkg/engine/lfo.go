package engine

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/osc"
	"github.com/SpecCade/SpecCade-sub003/pkg/fx"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
	"github.com/SpecCade/SpecCade-sub003/pkg/synth"
)

// lfoValue evaluates an LFO configuration at time t, returning a unipolar
// value in [0,1]. Target formulas convert to bipolar where they need to.
func lfoValue(cfg *spec.LfoConfig, t float64) float64 {
	phase := cfg.Phase + cfg.Rate*t
	phase -= math.Floor(phase)
	return (osc.Eval(osc.ParseWaveform(cfg.Waveform), phase, 0.5) + 1.0) * 0.5
}

// layerMod holds the per-sample modulation curves one layer's LFO produces.
// Nil fields leave the corresponding parameter at its baseline, so an absent
// LFO (or depth zero) reproduces the unmodulated trajectory exactly.
type layerMod struct {
	synthMod *synth.Modulation
	amp      []float64 // volume multiplier per sample
	cutoff   []float64 // additive cutoff offset in Hz
	pan      []float64 // absolute pan position per sample
}

// buildLayerMod precomputes the modulation curves for one layer. pitchScale
// is the spec-level pitch envelope curve shared by all layers; it is folded
// into the synthesis frequency scale here.
func buildLayerMod(l *spec.Layer, n int, sampleRate float64, pitchScale []float64) *layerMod {
	m := &layerMod{synthMod: &synth.Modulation{}}
	if pitchScale != nil {
		m.synthMod.FreqScale = append([]float64(nil), pitchScale...)
	}

	lfo := l.Lfo
	if lfo == nil || lfo.Depth <= 0 {
		return m
	}
	depth := math.Min(lfo.Depth, 1.0)

	curve := make([]float64, n)
	for i := range curve {
		curve[i] = lfoValue(&lfo.LfoConfig, float64(i)/sampleRate)
	}

	switch lfo.Target {
	case "pitch":
		scale := m.synthMod.FreqScale
		if scale == nil {
			scale = make([]float64, n)
			for i := range scale {
				scale[i] = 1.0
			}
			m.synthMod.FreqScale = scale
		}
		for i := range scale {
			bipolar := (curve[i] - 0.5) * 2.0
			scale[i] *= math.Pow(2.0, lfo.Semitones*depth*bipolar/12.0)
		}
	case "volume":
		m.amp = curve
		for i := range m.amp {
			a := 1.0 - lfo.Amount*depth*m.amp[i]
			if a < 0 {
				a = 0
			}
			m.amp[i] = a
		}
	case "filter_cutoff":
		m.cutoff = curve
		for i := range m.cutoff {
			m.cutoff[i] = (m.cutoff[i] - 0.5) * 2.0 * lfo.Amount * depth
		}
	case "pan":
		m.pan = curve
		for i := range m.pan {
			p := l.Pan + (m.pan[i]-0.5)*2.0*lfo.Amount*depth
			if p < -1 {
				p = -1
			} else if p > 1 {
				p = 1
			}
			m.pan[i] = p
		}
	case "pulse_width":
		m.synthMod.PulseWidth = bipolarCurve(curve, lfo.Amount*depth)
	case "fm_index":
		m.synthMod.FMIndex = bipolarCurve(curve, lfo.Amount*depth)
	case "grain_size":
		m.synthMod.GrainSize = bipolarCurve(curve, lfo.Amount*depth)
	case "grain_density":
		m.synthMod.GrainDensity = bipolarCurve(curve, lfo.Amount*depth)
	}
	return m
}

func bipolarCurve(curve []float64, scale float64) []float64 {
	out := make([]float64, len(curve))
	for i := range curve {
		out[i] = (curve[i] - 0.5) * 2.0 * scale
	}
	return out
}

// buildPitchScale evaluates the spec-level pitch envelope into a per-sample
// frequency multiplier applied to every layer.
func buildPitchScale(pe *spec.PitchEnvelope, n int, sampleRate float64) []float64 {
	if pe == nil || pe.Semitones == 0 {
		return nil
	}
	env := newADSR(&pe.Envelope).Curve(n, sampleRate)
	for i := range env {
		env[i] = math.Pow(2.0, env[i]*pe.Semitones/12.0)
	}
	return env
}

// buildPostFxCurves evaluates each post-FX LFO into a full-length offset
// curve. Curves are derived purely from the LFO configuration, so every
// effect sharing a target reads the same time-aligned values.
func buildPostFxCurves(mods []spec.LfoModulation, n int, sampleRate float64) *fx.Curves {
	if len(mods) == 0 {
		return nil
	}
	curves := &fx.Curves{}
	for i := range mods {
		m := &mods[i]
		if m.Depth <= 0 {
			continue
		}
		depth := math.Min(m.Depth, 1.0)
		curve := make([]float64, n)
		for j := range curve {
			v := lfoValue(&m.LfoConfig, float64(j)/sampleRate)
			curve[j] = (v - 0.5) * 2.0 * m.Amount * depth
		}
		switch m.Target {
		case "delay_time":
			curves.DelayTime = curve
		case "reverb_size":
			curves.ReverbSize = curve
		case "distortion_drive":
			curves.DistortionDrive = curve
		}
	}
	return curves
}
