package fx

import (
	"math"
	"testing"

	"github.com/SpecCade/SpecCade-sub003/pkg/rng"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

const testRate = 44100.0

func sineStereo(n int, freq, amp float64) (left, right []float64) {
	left = make([]float64, n)
	right = make([]float64, n)
	for i := range left {
		s := amp * math.Sin(2.0*math.Pi*freq*float64(i)/testRate)
		left[i] = s
		right[i] = s
	}
	return left, right
}

func peak(buf []float64) float64 {
	var p float64
	for _, s := range buf {
		if a := math.Abs(s); a > p {
			p = a
		}
	}
	return p
}

func energy(buf []float64) float64 {
	var e float64
	for _, s := range buf {
		e += s * s
	}
	return e
}

func TestChainUnknownEffect(t *testing.T) {
	_, err := NewChain([]spec.Effect{{Type: "exciter"}}, testRate, 1, nil)
	if err == nil {
		t.Fatal("expected error for unknown effect type")
	}
}

func TestChainDeterministic(t *testing.T) {
	effects := []spec.Effect{
		{Type: "tape_saturation", Drive: 2.0, HissLevel: 0.5, Wow: 0.3},
		{Type: "granular_delay", TimeMs: 120, Mix: 0.5, Feedback: 0.3},
		{Type: "reverb", RoomSize: 0.7, Mix: 0.4},
	}
	run := func() ([]float64, []float64) {
		ch, err := NewChain(effects, testRate, 99, nil)
		if err != nil {
			t.Fatal(err)
		}
		l, r := sineStereo(8820, 440, 0.5)
		ch.Process(l, r)
		return l, r
	}
	l1, r1 := run()
	l2, r2 := run()
	for i := range l1 {
		if l1[i] != l2[i] || r1[i] != r2[i] {
			t.Fatalf("chain output differs between identical runs at sample %d", i)
		}
	}
}

func TestLimiterNeverExceedsCeiling(t *testing.T) {
	lim := newLimiter(&spec.Effect{Type: "limiter", CeilingDB: -6.0}, testRate)
	l, r := sineStereo(22050, 220, 2.0)
	lim.Process(l, r)
	ceiling := math.Pow(10.0, -6.0/20.0)
	if p := peak(l); p > ceiling+1e-9 {
		t.Errorf("left peak %g exceeds ceiling %g", p, ceiling)
	}
	if p := peak(r); p > ceiling+1e-9 {
		t.Errorf("right peak %g exceeds ceiling %g", p, ceiling)
	}
}

func TestCompressorReducesLoudSignal(t *testing.T) {
	comp := newCompressor(&spec.Effect{Type: "compressor", ThresholdDB: -20, Ratio: 8, AttackMs: 1, ReleaseMs: 50}, testRate)
	l, r := sineStereo(22050, 220, 0.9)
	before := energy(l[11025:])
	comp.Process(l, r)
	after := energy(l[11025:])
	if after >= before {
		t.Errorf("compressor did not reduce level: %g -> %g", before, after)
	}
}

func TestGateAttenuatesQuietSignal(t *testing.T) {
	g := newGate(&spec.Effect{Type: "gate", ThresholdDB: -20, Ratio: 4}, testRate)
	l, r := sineStereo(22050, 220, 0.01) // about -40 dB
	before := energy(l[11025:])
	g.Process(l, r)
	after := energy(l[11025:])
	if after >= before/4 {
		t.Errorf("gate barely attenuated quiet signal: %g -> %g", before, after)
	}
}

func TestGatePassesLoudSignal(t *testing.T) {
	g := newGate(&spec.Effect{Type: "gate", ThresholdDB: -40, Ratio: 4}, testRate)
	l, r := sineStereo(22050, 220, 0.8)
	g.Process(l, r)
	// Past the attack settle, the loud signal should be essentially intact.
	if p := peak(l[11025:]); p < 0.7 {
		t.Errorf("gate attenuated signal well above threshold: peak %g", p)
	}
	_ = r
}

func TestOrderSensitivity(t *testing.T) {
	comp := spec.Effect{Type: "compressor", ThresholdDB: -15, Ratio: 6}
	shaper := spec.Effect{Type: "waveshaper", Drive: 6.0, Curve: "soft"}

	run := func(effects []spec.Effect) []float64 {
		ch, err := NewChain(effects, testRate, 5, nil)
		if err != nil {
			t.Fatal(err)
		}
		l, r := sineStereo(8820, 330, 0.8)
		ch.Process(l, r)
		return l
	}
	a := run([]spec.Effect{comp, shaper})
	b := run([]spec.Effect{shaper, comp})

	var maxDiff float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff < 1e-6 {
		t.Errorf("compressor/waveshaper order had no effect (max diff %g)", maxDiff)
	}
}

func TestDelayProducesEcho(t *testing.T) {
	d := newDelay(&spec.Effect{Type: "delay", TimeMs: 100, Mix: 0.5, Feedback: 0}, testRate, nil)
	n := int(testRate / 2)
	l := make([]float64, n)
	r := make([]float64, n)
	l[0], r[0] = 1.0, 1.0
	d.Process(l, r)

	echoAt := int(100.0 * testRate / 1000.0)
	found := false
	for i := echoAt - 2; i <= echoAt+2 && i < n; i++ {
		if math.Abs(l[i]) > 0.2 {
			found = true
		}
	}
	if !found {
		t.Errorf("no echo near sample %d", echoAt)
	}
}

func TestDelayTimeCurveChangesOutput(t *testing.T) {
	n := 8820
	curve := make([]float64, n)
	for i := range curve {
		curve[i] = 40.0 * math.Sin(2.0*math.Pi*2.0*float64(i)/testRate)
	}
	run := func(c *Curves) []float64 {
		d := newDelay(&spec.Effect{Type: "delay", TimeMs: 100, Mix: 0.5}, testRate, c)
		l, r := sineStereo(n, 440, 0.5)
		d.Process(l, r)
		return l
	}
	plain := run(nil)
	modded := run(&Curves{DelayTime: curve})
	same := true
	for i := range plain {
		if plain[i] != modded[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("delay_time curve had no effect")
	}
}

func TestReverbLeavesTail(t *testing.T) {
	rv := newReverb(&spec.Effect{Type: "reverb", RoomSize: 0.8, Mix: 0.5}, testRate, nil)
	n := int(testRate)
	l := make([]float64, n)
	r := make([]float64, n)
	// Impulse burst in the first 100 samples, silence after.
	for i := 0; i < 100; i++ {
		l[i], r[i] = 0.8, 0.8
	}
	rv.Process(l, r)
	if e := energy(l[n/2:]); e == 0 {
		t.Error("reverb produced no tail after the input stopped")
	}
}

func TestBitcrushQuantizes(t *testing.T) {
	b := newBitcrush(&spec.Effect{Type: "bitcrush", BitDepth: 2})
	l, r := sineStereo(4410, 440, 0.9)
	b.Process(l, r)
	// 2 bits leaves very few distinct levels.
	levels := map[float64]bool{}
	for _, s := range l {
		levels[s] = true
	}
	if len(levels) > 8 {
		t.Errorf("2-bit crush left %d distinct levels", len(levels))
	}
}

func TestTapeHissDeterministic(t *testing.T) {
	run := func() []float64 {
		ts := newTapeSaturation(&spec.Effect{Type: "tape_saturation", HissLevel: 1.0}, testRate, rng.Derive(3, "fx", "0"), nil)
		l, r := sineStereo(4410, 440, 0.3)
		ts.Process(l, r)
		return l
	}
	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tape hiss not reproducible at sample %d", i)
		}
	}
}

func TestHaasWidenerDelaysRight(t *testing.T) {
	w := newStereoWidener(&spec.Effect{Type: "stereo_widener", Mode: "haas", TimeMs: 10, Width: 2.0}, testRate, nil)
	n := 2205
	l := make([]float64, n)
	r := make([]float64, n)
	l[0], r[0] = 1.0, 1.0
	w.Process(l, r)

	delayAt := int(10.0 * testRate / 1000.0)
	if math.Abs(r[0]) > 1e-9 {
		t.Error("right channel not delayed at sample 0")
	}
	found := false
	for i := delayAt - 2; i <= delayAt+2; i++ {
		if math.Abs(r[i]) > 0.5 {
			found = true
		}
	}
	if !found {
		t.Errorf("delayed impulse not found near sample %d", delayAt)
	}
}

func TestHaasWidenerWidthControlsBlend(t *testing.T) {
	w := newStereoWidener(&spec.Effect{Type: "stereo_widener", Mode: "haas", TimeMs: 10, Width: 1.0}, testRate, nil)
	n := 2205
	l := make([]float64, n)
	r := make([]float64, n)
	l[0], r[0] = 1.0, 1.0
	w.Process(l, r)

	// Width 1 blends the delayed channel in at half strength, so half the
	// impulse stays at sample 0 and half lands at the delay time.
	if math.Abs(r[0]-0.5) > 1e-9 {
		t.Errorf("dry portion at sample 0 = %g, want 0.5", r[0])
	}
	delayAt := int(10.0 * testRate / 1000.0)
	found := false
	for i := delayAt - 2; i <= delayAt+2; i++ {
		if math.Abs(r[i]-0.5) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Errorf("delayed half impulse not found near sample %d", delayAt)
	}
}

func TestMidSideWidenerPreservesMono(t *testing.T) {
	w := newStereoWidener(&spec.Effect{Type: "stereo_widener", Mode: "mid_side", Width: 2.0}, testRate, nil)
	l, r := sineStereo(2205, 440, 0.5)
	orig := make([]float64, len(l))
	copy(orig, l)
	w.Process(l, r)
	// A mono input has no side signal; widening must leave nothing but the
	// mid path.
	for i := range l {
		if math.Abs(l[i]-r[i]) > 1e-12 {
			t.Fatalf("mono input became unequal channels at %d", i)
		}
	}
	_ = orig
}

func TestParametricEQBoostsBand(t *testing.T) {
	e := &spec.Effect{Type: "parametric_eq", EQBands: []spec.EQBand{{Frequency: 440, GainDB: 12, Q: 2}}}
	eq := newParametricEQ(e, testRate)
	l, r := sineStereo(22050, 440, 0.2)
	before := energy(l[11025:])
	eq.Process(l, r)
	after := energy(l[11025:])
	if after <= before {
		t.Errorf("12 dB boost at 440 did not raise 440 Hz energy: %g -> %g", before, after)
	}
}

func TestRingModChangesSpectrum(t *testing.T) {
	rm := newRingMod(&spec.Effect{Type: "ring_mod", Frequency: 100, Mix: 1.0}, testRate)
	l, r := sineStereo(4410, 440, 0.5)
	rm.Process(l, r)
	// Full ring modulation of a sine by a sine has no component at the
	// original frequency; correlate against the original.
	var corr float64
	for i := range l {
		corr += l[i] * math.Sin(2.0*math.Pi*440.0*float64(i)/testRate)
	}
	corr /= float64(len(l))
	if math.Abs(corr) > 0.01 {
		t.Errorf("carrier leakage after full ring mod: correlation %g", corr)
	}
}

func TestAutoFilterOpensWithLevel(t *testing.T) {
	af := newAutoFilter(&spec.Effect{Type: "auto_filter", BaseCutoff: 200, Sensitivity: 1.0}, testRate)
	// Loud high-frequency content passes better when the envelope is hot.
	quietL, quietR := sineStereo(22050, 4000, 0.05)
	af.Process(quietL, quietR)
	quietRatio := energy(quietL[11025:]) / (0.05 * 0.05)

	af2 := newAutoFilter(&spec.Effect{Type: "auto_filter", BaseCutoff: 200, Sensitivity: 1.0}, testRate)
	loudL, loudR := sineStereo(22050, 4000, 0.9)
	af2.Process(loudL, loudR)
	loudRatio := energy(loudL[11025:]) / (0.9 * 0.9)

	if loudRatio <= quietRatio {
		t.Errorf("filter did not open with level: quiet %g, loud %g", quietRatio, loudRatio)
	}
}

func TestPhaserAffectsSignal(t *testing.T) {
	p := newPhaser(&spec.Effect{Type: "phaser", RateHz: 1.0, Mix: 0.5}, testRate)
	l, r := sineStereo(8820, 440, 0.5)
	orig := make([]float64, len(l))
	copy(orig, l)
	p.Process(l, r)
	same := true
	for i := range l {
		if l[i] != orig[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("phaser passed signal through untouched")
	}
}
