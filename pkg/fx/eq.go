package fx

import (
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/filter"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// parametricEQ cascades one peaking biquad per configured band, duplicated
// per channel so the sections never share state.
type parametricEQ struct {
	bandsL []*filter.Biquad
	bandsR []*filter.Biquad
}

func newParametricEQ(e *spec.Effect, sampleRate float64) *parametricEQ {
	eq := &parametricEQ{}
	for _, band := range e.EQBands {
		if band.Frequency <= 0 {
			continue
		}
		q := band.Q
		if q <= 0 {
			q = 1.0
		}
		l := filter.NewBiquad()
		l.SetPeakingEQ(sampleRate, band.Frequency, q, band.GainDB)
		r := filter.NewBiquad()
		r.SetPeakingEQ(sampleRate, band.Frequency, q, band.GainDB)
		eq.bandsL = append(eq.bandsL, l)
		eq.bandsR = append(eq.bandsR, r)
	}
	return eq
}

func (eq *parametricEQ) Process(left, right []float64) {
	for i := range left {
		sL, sR := left[i], right[i]
		for b := range eq.bandsL {
			sL = eq.bandsL[b].Tick(sL)
			sR = eq.bandsR[b].Tick(sR)
		}
		left[i] = sL
		right[i] = sR
	}
}

// cabinetVoicing is one fixed filter stack approximating a speaker cabinet.
type cabinetVoicing struct {
	highpassHz float64
	lowpassHz  float64
	peakHz     float64
	peakGainDB float64
	peakQ      float64
}

var cabinetVoicings = map[string]cabinetVoicing{
	"combo": {highpassHz: 80, lowpassHz: 4500, peakHz: 2200, peakGainDB: 3.0, peakQ: 1.0},
	"stack": {highpassHz: 60, lowpassHz: 3500, peakHz: 500, peakGainDB: -4.0, peakQ: 0.8},
	"radio": {highpassHz: 400, lowpassHz: 2500, peakHz: 1500, peakGainDB: 4.0, peakQ: 2.0},
}

// cabinetSim colors the signal through the fixed stack for the chosen
// cabinet type. Unknown types fall back to "combo".
type cabinetSim struct {
	stagesL [3]*filter.Biquad
	stagesR [3]*filter.Biquad
}

func newCabinetSim(e *spec.Effect, sampleRate float64) *cabinetSim {
	v, ok := cabinetVoicings[e.Cabinet]
	if !ok {
		v = cabinetVoicings["combo"]
	}
	c := &cabinetSim{}
	for i := range c.stagesL {
		c.stagesL[i] = filter.NewBiquad()
		c.stagesR[i] = filter.NewBiquad()
	}
	c.stagesL[0].SetHighpass(sampleRate, v.highpassHz, 0.707)
	c.stagesR[0].SetHighpass(sampleRate, v.highpassHz, 0.707)
	c.stagesL[1].SetLowpass(sampleRate, v.lowpassHz, 0.707)
	c.stagesR[1].SetLowpass(sampleRate, v.lowpassHz, 0.707)
	c.stagesL[2].SetPeakingEQ(sampleRate, v.peakHz, v.peakQ, v.peakGainDB)
	c.stagesR[2].SetPeakingEQ(sampleRate, v.peakHz, v.peakQ, v.peakGainDB)
	return c
}

func (c *cabinetSim) Process(left, right []float64) {
	for i := range left {
		sL, sR := left[i], right[i]
		for s := range c.stagesL {
			sL = c.stagesL[s].Tick(sL)
			sR = c.stagesR[s].Tick(sR)
		}
		left[i] = sL
		right[i] = sR
	}
}
