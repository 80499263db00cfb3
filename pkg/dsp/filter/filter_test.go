package filter

import (
	"math"
	"testing"
)

// sineAt renders n samples of a sine at freq.
func sineAt(freq, sampleRate float64, n int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2.0 * math.Pi * freq * float64(i) / sampleRate)
	}
	return buf
}

func rmsOf(buf []float64) float64 {
	var sum float64
	for _, s := range buf {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func TestBiquadLowpassAttenuatesHighs(t *testing.T) {
	sampleRate := 44100.0
	n := 4410

	low := sineAt(100, sampleRate, n)
	high := sineAt(8000, sampleRate, n)

	lp := NewBiquad()
	lp.SetLowpass(sampleRate, 1000, 0.707)
	lp.Process(low)

	lp2 := NewBiquad()
	lp2.SetLowpass(sampleRate, 1000, 0.707)
	lp2.Process(high)

	lowRMS := rmsOf(low[n/2:])
	highRMS := rmsOf(high[n/2:])
	if highRMS > lowRMS*0.2 {
		t.Errorf("lowpass barely attenuated 8kHz: low=%f high=%f", lowRMS, highRMS)
	}
}

func TestBiquadHighpassAttenuatesLows(t *testing.T) {
	sampleRate := 44100.0
	n := 4410

	low := sineAt(100, sampleRate, n)
	hp := NewBiquad()
	hp.SetHighpass(sampleRate, 2000, 0.707)
	hp.Process(low)

	if rms := rmsOf(low[n/2:]); rms > 0.05 {
		t.Errorf("highpass passed 100Hz at rms %f", rms)
	}
}

func TestBiquadNotchRemovesCenter(t *testing.T) {
	sampleRate := 44100.0
	n := 8820

	buf := sineAt(1000, sampleRate, n)
	nf := NewBiquad()
	nf.SetNotch(sampleRate, 1000, 4.0)
	nf.Process(buf)

	if rms := rmsOf(buf[n/2:]); rms > 0.1 {
		t.Errorf("notch left 1kHz at rms %f", rms)
	}
}

func TestBiquadAllpassPreservesLevel(t *testing.T) {
	sampleRate := 44100.0
	n := 8820

	buf := sineAt(1000, sampleRate, n)
	ap := NewBiquad()
	ap.SetAllpass(sampleRate, 1000, 0.707)
	ap.Process(buf)

	rms := rmsOf(buf[n/2:])
	if math.Abs(rms-math.Sqrt(0.5)) > 0.05 {
		t.Errorf("allpass changed level: rms %f", rms)
	}
}

func TestBiquadFrequencyClamping(t *testing.T) {
	b := NewBiquad()
	b.SetLowpass(44100, 1e9, 0.707) // Above Nyquist, must not blow up.
	buf := sineAt(440, 44100, 1000)
	b.Process(buf)
	for i, s := range buf {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("non-finite output at %d after clamped design", i)
		}
	}
}

func TestLadderStableAtFullResonance(t *testing.T) {
	l := NewLadder(44100)
	l.SetCutoff(2000)
	l.SetResonance(1.0)

	buf := sineAt(440, 44100, 44100)
	l.Process(buf)
	for i, s := range buf {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("ladder went non-finite at %d", i)
		}
		if math.Abs(s) > 10.0 {
			t.Fatalf("ladder diverged at %d: %f", i, s)
		}
	}
}

func TestCombFeedbackClamp(t *testing.T) {
	c := NewComb(100)
	c.SetFeedback(5.0)
	if c.feedback > MaxCombFeedback {
		t.Errorf("feedback not clamped: %f", c.feedback)
	}

	c.SetWet(0.5)
	buf := sineAt(440, 44100, 44100)
	c.Process(buf)
	for i, s := range buf {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("comb went non-finite at %d", i)
		}
	}
}

func TestFormantBankKnownVowels(t *testing.T) {
	for _, vowel := range []string{"a", "e", "i", "o", "u"} {
		f := VowelFormants(vowel)
		if f[0] <= 0 || f[1] <= f[0] || f[2] <= f[1] {
			t.Errorf("vowel %q formants not ascending: %v", vowel, f)
		}
	}
	if VowelFormants("x") != VowelFormants("a") {
		t.Error("unknown vowel should fall back to a")
	}
}

func TestFormantMorphMidpoint(t *testing.T) {
	a := VowelFormants("a")
	u := VowelFormants("u")
	mid := MorphFormants("a", "u", 0.5)
	for i := range mid {
		want := (a[i] + u[i]) / 2
		if math.Abs(mid[i]-want) > 1e-9 {
			t.Errorf("formant %d midpoint %f, want %f", i, mid[i], want)
		}
	}
}

func TestSVFLowpassTracksBiquad(t *testing.T) {
	sampleRate := 44100.0
	n := 4410

	high := sineAt(10000, sampleRate, n)
	svf := NewSVF()
	svf.SetFrequency(sampleRate, 500)
	svf.SetQ(0.707)
	for i := range high {
		high[i] = svf.Tick(high[i]).Lowpass
	}
	if rms := rmsOf(high[n/2:]); rms > 0.05 {
		t.Errorf("SVF lowpass passed 10kHz at rms %f", rms)
	}
}
