package envelope

import (
	"math"
	"testing"
)

func TestADSRShapeWithSustain(t *testing.T) {
	e := NewADSR(0.1, 0.1, 0.5, 0.1)
	duration := 1.0

	cases := []struct {
		at   float64
		want float64
	}{
		{0.0, 0.0},
		{0.05, 0.5},  // mid attack
		{0.1, 1.0},   // attack peak
		{0.15, 0.75}, // mid decay
		{0.2, 0.5},   // sustain reached
		{0.5, 0.5},   // holding
		{0.95, 0.25}, // mid release
	}
	for _, tc := range cases {
		got := e.Amplitude(tc.at, duration)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Amplitude(%f) = %f, want %f", tc.at, got, tc.want)
		}
	}
}

func TestADSROneShot(t *testing.T) {
	e := NewADSR(0.1, 0.2, 0.0, 0.2)
	duration := 2.0

	if !e.OneShot() {
		t.Fatal("sustain 0 must be one-shot")
	}
	// Falls linearly from 1 at t=0.1 to 0 at t=0.5 (decay+release tail).
	if got := e.Amplitude(0.3, duration); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("one-shot mid-tail = %f, want 0.5", got)
	}
	if got := e.Amplitude(0.6, duration); got != 0 {
		t.Errorf("one-shot after tail = %f, want 0", got)
	}
}

func TestADSRLoopStart(t *testing.T) {
	e := NewADSR(0.03, 0.07, 0.8, 0.1)
	if got := e.LoopStart(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("LoopStart = %f, want 0.1", got)
	}
}

func TestADSROutOfRange(t *testing.T) {
	e := NewADSR(0.1, 0.1, 0.5, 0.1)
	if e.Amplitude(-0.1, 1.0) != 0 {
		t.Error("negative time should be silent")
	}
	if e.Amplitude(1.0, 1.0) != 0 {
		t.Error("time at duration should be silent")
	}
}

func TestADSRApply(t *testing.T) {
	sampleRate := 1000.0
	buf := make([]float64, 1000)
	for i := range buf {
		buf[i] = 1.0
	}
	e := NewADSR(0.1, 0.1, 0.5, 0.1)
	e.Apply(buf, sampleRate)

	if buf[0] != 0 {
		t.Errorf("first sample %f, want 0", buf[0])
	}
	if math.Abs(buf[500]-0.5) > 1e-9 {
		t.Errorf("sustain sample %f, want 0.5", buf[500])
	}
}

func TestDetectorRisesAndFalls(t *testing.T) {
	d := NewDetector(44100, ModePeak)
	d.SetTimeConstants(0.001, 0.050)

	// Feed a constant level, envelope must approach it.
	var env float64
	for i := 0; i < 4410; i++ {
		env = d.Detect(0.8)
	}
	if env < 0.75 {
		t.Errorf("envelope only reached %f after 100ms of 0.8", env)
	}

	// Silence, envelope must decay.
	for i := 0; i < 44100; i++ {
		env = d.Detect(0.0)
	}
	if env > 0.01 {
		t.Errorf("envelope stuck at %f after 1s of silence", env)
	}
}

func TestDetectorRMSBounded(t *testing.T) {
	d := NewDetector(44100, ModeRMS)
	for i := 0; i < 44100; i++ {
		v := d.Detect(math.Sin(float64(i) * 0.1))
		if v < 0 || v > 1.01 {
			t.Fatalf("RMS envelope out of range at %d: %f", i, v)
		}
	}
}
