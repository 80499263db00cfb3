package synth

import (
	"math"
	"testing"

	"github.com/SpecCade/SpecCade-sub003/pkg/rng"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

const testRate = 44100.0

func render(t *testing.T, p *spec.Synthesis, n int) []float64 {
	t.Helper()
	out, err := Generate(n, testRate, p, nil, rng.Derive(42, "layer", "0"))
	if err != nil {
		t.Fatalf("Generate(%s): %v", p.Type, err)
	}
	return out
}

// Every registered generator must render the requested length, stay finite,
// and reproduce itself exactly from the same derived stream.
func TestAllGeneratorsDeterministic(t *testing.T) {
	for name := range generators {
		p := &spec.Synthesis{
			Type:      name,
			Frequency: 220.0,
			Vowel:     "a",
		}
		n := 4410
		a, err := Generate(n, testRate, p, nil, rng.Derive(7, "layer", "3"))
		if err != nil {
			t.Fatalf("Generate(%s): %v", name, err)
		}
		if len(a) != n {
			t.Fatalf("%s: got %d samples, want %d", name, len(a), n)
		}
		for i, s := range a {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				t.Fatalf("%s: non-finite sample at %d", name, i)
			}
		}
		b, err := Generate(n, testRate, p, nil, rng.Derive(7, "layer", "3"))
		if err != nil {
			t.Fatalf("Generate(%s) again: %v", name, err)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: sample %d differs between identical renders", name, i)
			}
		}
	}
}

func TestGenerateUnknownType(t *testing.T) {
	_, err := Generate(100, testRate, &spec.Synthesis{Type: "theremin"}, nil, rng.Derive(1, "x"))
	if err == nil {
		t.Fatal("expected error for unknown synthesis type")
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	p := &spec.Synthesis{Type: "noise_burst"}
	a := mustGen(t, p, rng.Derive(1, "layer", "0"))
	b := mustGen(t, p, rng.Derive(2, "layer", "0"))
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func mustGen(t *testing.T, p *spec.Synthesis, s *rng.Stream) []float64 {
	t.Helper()
	out, err := Generate(2205, testRate, p, nil, s)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func countZeroCrossings(buf []float64) int {
	var n int
	for i := 1; i < len(buf); i++ {
		if (buf[i-1] < 0) != (buf[i] < 0) {
			n++
		}
	}
	return n
}

func TestOscillatorFrequency(t *testing.T) {
	p := &spec.Synthesis{Type: "oscillator", Waveform: "sine", Frequency: 441.0}
	out := render(t, p, int(testRate))
	// 441 Hz over one second crosses zero about 882 times.
	got := countZeroCrossings(out)
	if got < 870 || got > 894 {
		t.Errorf("zero crossings = %d, want near 882", got)
	}
}

func TestFreqSweepRaisesPitch(t *testing.T) {
	n := int(testRate)
	p := &spec.Synthesis{
		Type:      "oscillator",
		Waveform:  "sine",
		Frequency: 200.0,
		FreqSweep: &spec.FreqSweep{EndFreq: 800.0, Curve: "linear"},
	}
	out := render(t, p, n)
	first := countZeroCrossings(out[:n/4])
	last := countZeroCrossings(out[3*n/4:])
	if last <= first {
		t.Errorf("sweep did not raise pitch: first quarter %d crossings, last %d", first, last)
	}
}

func TestExponentialSweepEndpoints(t *testing.T) {
	g := &gen{
		n:          1001,
		sampleRate: testRate,
		p: &spec.Synthesis{
			Frequency: 100.0,
			FreqSweep: &spec.FreqSweep{EndFreq: 1600.0, Curve: "exponential"},
		},
	}
	if f := g.freqAt(0); math.Abs(f-100.0) > 1e-9 {
		t.Errorf("start freq = %g, want 100", f)
	}
	if f := g.freqAt(1000); math.Abs(f-1600.0) > 1e-6 {
		t.Errorf("end freq = %g, want 1600", f)
	}
	// Exponential midpoint is the geometric mean.
	if f := g.freqAt(500); math.Abs(f-400.0) > 0.5 {
		t.Errorf("mid freq = %g, want 400", f)
	}
}

func TestPitchModulationScalesFrequency(t *testing.T) {
	n := 1000
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 2.0
	}
	g := &gen{
		n:          n,
		sampleRate: testRate,
		p:          &spec.Synthesis{Frequency: 300.0},
		mod:        &Modulation{FreqScale: scale},
	}
	if f := g.freqAt(10); math.Abs(f-600.0) > 1e-9 {
		t.Errorf("modulated freq = %g, want 600", f)
	}
}

func TestPulseWidthClamped(t *testing.T) {
	m := &Modulation{PulseWidth: []float64{5.0, -5.0}}
	if w := m.pulseWidthAt(0.5, 0); w != 0.95 {
		t.Errorf("high clamp = %g, want 0.95", w)
	}
	if w := m.pulseWidthAt(0.5, 1); w != 0.05 {
		t.Errorf("low clamp = %g, want 0.05", w)
	}
}

func TestSupersawFullerThanSingleSaw(t *testing.T) {
	single := render(t, &spec.Synthesis{Type: "oscillator", Waveform: "sawtooth", Frequency: 220}, 8820)
	super := render(t, &spec.Synthesis{Type: "supersaw_unison", Frequency: 220, Voices: 7, DetuneCents: 25}, 8820)
	// Detuned voices drift in and out of phase; the supersaw should not be
	// a pure ramp. Compare sample-to-sample difference energy.
	var dSingle, dSuper float64
	for i := 1; i < 8820; i++ {
		dSingle += math.Abs(single[i] - single[i-1])
		dSuper += math.Abs(super[i] - super[i-1])
	}
	if dSuper == dSingle {
		t.Error("supersaw indistinguishable from single saw")
	}
}

func TestAdditiveRespectsNyquist(t *testing.T) {
	// High fundamental with many harmonics must silently skip partials
	// above Nyquist rather than alias to garbage amplitudes.
	out := render(t, &spec.Synthesis{Type: "additive", Frequency: 10000, Harmonics: 32}, 4410)
	for i, s := range out {
		if math.Abs(s) > 1.5 {
			t.Fatalf("sample %d = %g exceeds normalized range", i, s)
		}
	}
}

func TestKarplusStrongDecays(t *testing.T) {
	n := int(testRate)
	out := render(t, &spec.Synthesis{Type: "karplus_strong", Frequency: 220, Damping: 0.95}, n)
	var early, late float64
	for i := 0; i < n/8; i++ {
		early += out[i] * out[i]
	}
	for i := 7 * n / 8; i < n; i++ {
		late += out[i] * out[i]
	}
	if late >= early {
		t.Errorf("plucked string did not decay: early energy %g, late %g", early, late)
	}
}

func TestMembraneDrumDecays(t *testing.T) {
	n := int(testRate / 2)
	out := render(t, &spec.Synthesis{Type: "membrane_drum", Frequency: 80, Decay: 0.2}, n)
	var early, late float64
	for i := 0; i < n/8; i++ {
		early += out[i] * out[i]
	}
	for i := 7 * n / 8; i < n; i++ {
		late += out[i] * out[i]
	}
	if late >= early/2 {
		t.Errorf("drum did not decay: early energy %g, late %g", early, late)
	}
}

func TestGranularGrainCountScalesWithDensity(t *testing.T) {
	sparse := render(t, &spec.Synthesis{Type: "granular", Frequency: 440, GrainDensity: 5}, int(testRate))
	dense := render(t, &spec.Synthesis{Type: "granular", Frequency: 440, GrainDensity: 60}, int(testRate))
	var eSparse, eDense float64
	for i := range sparse {
		eSparse += sparse[i] * sparse[i]
		eDense += dense[i] * dense[i]
	}
	if eDense <= eSparse {
		t.Errorf("denser grain cloud carries less energy: %g vs %g", eDense, eSparse)
	}
}

func TestPulsarIsPeriodicWithoutJitter(t *testing.T) {
	a := render(t, &spec.Synthesis{Type: "pulsar", Frequency: 440, PulseRate: 40}, 4410)
	b := render(t, &spec.Synthesis{Type: "pulsar", Frequency: 440, PulseRate: 40}, 4410)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pulsar not deterministic at sample %d", i)
		}
	}
}

func TestSpectralFreezeProducesSignal(t *testing.T) {
	out := render(t, &spec.Synthesis{Type: "spectral_freeze", Frequency: 330, Source: "tone"}, int(testRate/2))
	var energy float64
	for _, s := range out {
		energy += s * s
	}
	if energy == 0 {
		t.Error("frozen spectrum rendered silence")
	}
}

func TestVosimSilentBetweenPulseTrains(t *testing.T) {
	// Low pulse count at a low fundamental leaves dead time at the end of
	// each period.
	out := render(t, &spec.Synthesis{Type: "vosim", Frequency: 100, FormantFreq: 1600, PulsesPerCycle: 2}, 4410)
	var zeros int
	for _, s := range out {
		if s == 0 {
			zeros++
		}
	}
	if zeros == 0 {
		t.Error("vosim has no inter-train gaps")
	}
}

func TestVectorCornerSelection(t *testing.T) {
	corners := [4]string{"sine", "sawtooth", "square", "triangle"}
	// Position pinned at (0,0) must reproduce the first corner alone.
	vec := render(t, &spec.Synthesis{Type: "vector", Frequency: 440, Corners: corners, X: 0, Y: 0}, 4410)
	pure := render(t, &spec.Synthesis{Type: "oscillator", Waveform: "sine", Frequency: 440}, 4410)
	for i := range vec {
		if math.Abs(vec[i]-pure[i]) > 1e-9 {
			t.Fatalf("corner (0,0) mismatch at %d: %g vs %g", i, vec[i], pure[i])
		}
	}
}

func TestVectorPathHoldsFinalPoint(t *testing.T) {
	p := &spec.Synthesis{
		X: 0, Y: 0,
		Path: []spec.VectorPoint{
			{X: 1, Y: 0, Duration: 0.5, Curve: "linear"},
			{X: 1, Y: 1, Duration: 0.5, Curve: "exponential"},
		},
	}
	x, y := vectorPosition(p, 10.0)
	if x != 1 || y != 1 {
		t.Errorf("past-end position = (%g,%g), want (1,1)", x, y)
	}
	x, y = vectorPosition(p, 0.25)
	if math.Abs(x-0.5) > 1e-9 || y != 0 {
		t.Errorf("mid-segment position = (%g,%g), want (0.5,0)", x, y)
	}
}

func TestFormantMorphChangesSpectrum(t *testing.T) {
	plain := render(t, &spec.Synthesis{Type: "formant", Frequency: 120, Vowel: "a"}, 8820)
	morph := render(t, &spec.Synthesis{Type: "formant", Frequency: 120, Vowel: "a", VowelEnd: "i"}, 8820)
	same := true
	for i := 4410; i < 8820; i++ {
		if plain[i] != morph[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("vowel morph had no effect in second half")
	}
}
