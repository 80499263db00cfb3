package engine

import (
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/envelope"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/filter"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

func newADSR(e *spec.Envelope) *envelope.ADSR {
	return envelope.NewADSR(e.Attack, e.Decay, e.Sustain, e.Release)
}

// cutoffAt resolves the filter cutoff at sample i: base value, linear sweep
// to CutoffEnd across the buffer, plus any filter_cutoff LFO offset.
func cutoffAt(f *spec.Filter, i, n int, offset []float64) float64 {
	c := f.Cutoff
	if f.CutoffEnd > 0 && n > 1 {
		c += (f.CutoffEnd - f.Cutoff) * float64(i) / float64(n-1)
	}
	if offset != nil && i < len(offset) {
		c += offset[i]
	}
	if c < 1.0 {
		c = 1.0
	}
	return c
}

// applyFilter runs one filter topology over a mono buffer in place.
// Biquad-family filters recompute coefficients per sample only when the
// cutoff actually moves; static filters configure once.
func applyFilter(buf []float64, f *spec.Filter, offset []float64, sampleRate float64) {
	if f == nil {
		return
	}
	n := len(buf)
	swept := (f.CutoffEnd > 0 && f.CutoffEnd != f.Cutoff) || offset != nil

	setBiquad := func(b *filter.Biquad, cutoff float64) {
		q := f.Resonance
		if q <= 0 {
			q = 0.707
		}
		switch f.Type {
		case "highpass":
			b.SetHighpass(sampleRate, cutoff, q)
		case "bandpass":
			b.SetBandpass(sampleRate, cutoff, q)
		case "notch":
			b.SetNotch(sampleRate, cutoff, q)
		case "allpass":
			b.SetAllpass(sampleRate, cutoff, q)
		default:
			b.SetLowpass(sampleRate, cutoff, q)
		}
	}

	switch f.Type {
	case "lowpass", "highpass", "bandpass", "notch", "allpass":
		b := filter.NewBiquad()
		if !swept {
			setBiquad(b, cutoffAt(f, 0, n, nil))
			b.Process(buf)
			return
		}
		for i := range buf {
			setBiquad(b, cutoffAt(f, i, n, offset))
			buf[i] = b.Tick(buf[i])
		}

	case "ladder":
		l := filter.NewLadder(sampleRate)
		l.SetResonance(f.Resonance)
		if !swept {
			l.SetCutoff(cutoffAt(f, 0, n, nil))
			l.Process(buf)
			return
		}
		for i := range buf {
			l.SetCutoff(cutoffAt(f, i, n, offset))
			buf[i] = l.Tick(buf[i])
		}

	case "comb":
		delaySamples := int(f.DelayMs * sampleRate / 1000.0)
		c := filter.NewComb(delaySamples)
		c.SetFeedback(f.Feedback)
		c.SetWet(f.Wet)
		c.Process(buf)

	case "formant":
		intensity := f.Intensity
		if intensity <= 0 {
			intensity = 1.0
		}
		filter.NewFormantBank(sampleRate, f.Vowel, intensity).Process(buf)

	case "shelf_low":
		b := filter.NewBiquad()
		b.SetLowShelf(sampleRate, f.Cutoff, f.GainDB)
		b.Process(buf)

	case "shelf_high":
		b := filter.NewBiquad()
		b.SetHighShelf(sampleRate, f.Cutoff, f.GainDB)
		b.Process(buf)
	}
}

// applyFilterStereo runs the same filter independently per channel.
func applyFilterStereo(left, right []float64, f *spec.Filter, sampleRate float64) {
	applyFilter(left, f, nil, sampleRate)
	applyFilter(right, f, nil, sampleRate)
}
