// Package spec defines the declarative audio recipe consumed by the render
// engine: synthesis layers with envelopes, filters and LFO modulation, plus
// a master filter, an ordered effects chain and post-FX LFOs. The schema is
// validated upstream; this package performs only the structural checks the
// engine itself depends on (LFO target pairing and the render size cap).
package spec

// AudioSpec is the root of an audio_v1 recipe's params object.
type AudioSpec struct {
	DurationSeconds    float64         `json:"duration_seconds"`
	SampleRate         int             `json:"sample_rate"`
	Seed               uint32          `json:"seed"`
	Layers             []Layer         `json:"layers"`
	PitchEnvelope      *PitchEnvelope  `json:"pitch_envelope,omitempty"`
	MasterFilter       *Filter         `json:"master_filter,omitempty"`
	Effects            []Effect        `json:"effects,omitempty"`
	PostFxLfos         []LfoModulation `json:"post_fx_lfos,omitempty"`
	GenerateLoopPoints bool            `json:"generate_loop_points,omitempty"`
}

// Layer is one synthesis voice mixed into the master buffer.
type Layer struct {
	Synthesis Synthesis      `json:"synthesis"`
	Envelope  Envelope       `json:"envelope"`
	Volume    float64        `json:"volume"`
	Pan       float64        `json:"pan,omitempty"`
	Delay     float64        `json:"delay,omitempty"`
	Filter    *Filter        `json:"filter,omitempty"`
	Lfo       *LfoModulation `json:"lfo,omitempty"`
}

// Envelope is a time-indexed ADSR amplitude envelope. Times are seconds,
// sustain is a level in [0,1]. Sustain of zero selects one-shot behavior:
// the release becomes part of the decay tail and the sound never loops.
type Envelope struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

// PitchEnvelope applies an ADSR-shaped pitch offset, in semitones, to every
// layer's frequency.
type PitchEnvelope struct {
	Envelope
	Semitones float64 `json:"semitones"`
}

// FreqSweep interpolates a generator's controlling frequency from its base
// value to EndFreq across the full buffer.
type FreqSweep struct {
	EndFreq float64 `json:"end_freq"`
	Curve   string  `json:"curve,omitempty"` // "linear" (default) or "exponential"
}

// Synthesis selects one generator algorithm by Type and carries its numeric
// parameters. Fields not used by the selected type are ignored.
type Synthesis struct {
	Type string `json:"type"`

	// Shared by nearly every variant.
	Frequency float64    `json:"frequency,omitempty"`
	FreqSweep *FreqSweep `json:"freq_sweep,omitempty"`

	// Subtractive family.
	Waveform    string  `json:"waveform,omitempty"`   // sine, square, sawtooth, triangle, pulse
	DutyCycle   float64 `json:"duty_cycle,omitempty"` // pulse width in (0,1)
	DetuneCents float64 `json:"detune_cents,omitempty"`
	Voices      int     `json:"voices,omitempty"`
	Position    float64 `json:"position,omitempty"` // wavetable morph position [0,1]

	// Additive.
	Harmonics int     `json:"harmonics,omitempty"`
	Rolloff   float64 `json:"rolloff,omitempty"` // harmonic amplitude 1/n^rolloff

	// Noise.
	NoiseColor string `json:"noise_color,omitempty"` // white, pink, brown

	// Modulation family (FM/AM/ring/feedback/phase distortion).
	ModRatio   float64 `json:"mod_ratio,omitempty"`
	ModIndex   float64 `json:"mod_index,omitempty"`
	ModDepth   float64 `json:"mod_depth,omitempty"`
	ModFreq    float64 `json:"mod_freq,omitempty"`
	Mix        float64 `json:"mix,omitempty"`
	Feedback   float64 `json:"feedback,omitempty"`
	Distortion float64 `json:"distortion,omitempty"` // phase distortion amount [0,1]

	// Physical models.
	Damping     float64 `json:"damping,omitempty"`
	Brightness  float64 `json:"brightness,omitempty"`
	Breathiness float64 `json:"breathiness,omitempty"`
	BowPressure float64 `json:"bow_pressure,omitempty"`
	BowPosition float64 `json:"bow_position,omitempty"`

	// Resonance banks and impacts.
	Decay           float64 `json:"decay,omitempty"`
	Inharmonicity   float64 `json:"inharmonicity,omitempty"`
	StrikeSharpness float64 `json:"strike_sharpness,omitempty"`

	// Granular / grain trains.
	GrainSizeMs  float64 `json:"grain_size_ms,omitempty"`
	GrainDensity float64 `json:"grain_density,omitempty"` // grains per second
	Jitter       float64 `json:"jitter,omitempty"`        // [0,1]
	PulseRate    float64 `json:"pulse_rate,omitempty"`    // pulsar trains per second

	// Spectral freeze.
	Source string `json:"source,omitempty"` // "noise" or "tone"

	// Vocal family.
	Bands          int     `json:"bands,omitempty"`
	Spacing        string  `json:"spacing,omitempty"` // "linear" or "logarithmic"
	Carrier        string  `json:"carrier,omitempty"` // "sawtooth", "pulse", "noise"
	Vowel          string  `json:"vowel,omitempty"`
	VowelEnd       string  `json:"vowel_end,omitempty"`
	FormantFreq    float64 `json:"formant_freq,omitempty"`
	PulsesPerCycle int     `json:"pulses_per_cycle,omitempty"`

	// Vector synthesis.
	Corners [4]string     `json:"corners,omitempty"`
	X       float64       `json:"x,omitempty"`
	Y       float64       `json:"y,omitempty"`
	Path    []VectorPoint `json:"path,omitempty"`
}

// VectorPoint is one segment endpoint of an animated vector-synthesis path.
type VectorPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Duration float64 `json:"duration"`        // seconds spent reaching this point
	Curve    string  `json:"curve,omitempty"` // "linear" (default) or "exponential"
}

// Filter selects one filter topology by Type. Biquad types support an
// optional linear cutoff sweep via CutoffEnd; shelves do not sweep.
type Filter struct {
	Type      string  `json:"type"`
	Cutoff    float64 `json:"cutoff,omitempty"` // cutoff / center / corner frequency in Hz
	CutoffEnd float64 `json:"cutoff_end,omitempty"`
	Resonance float64 `json:"resonance,omitempty"`

	// Comb.
	DelayMs  float64 `json:"delay_ms,omitempty"`
	Feedback float64 `json:"feedback,omitempty"`
	Wet      float64 `json:"wet,omitempty"`

	// Formant.
	Vowel     string  `json:"vowel,omitempty"`
	Intensity float64 `json:"intensity,omitempty"`

	// Shelves.
	GainDB float64 `json:"gain_db,omitempty"`
}

// LfoConfig describes one low-frequency oscillator.
type LfoConfig struct {
	Waveform string  `json:"waveform"` // sine, square, sawtooth, triangle, pulse
	Rate     float64 `json:"rate"`     // Hz
	Depth    float64 `json:"depth"`    // (0,1]
	Phase    float64 `json:"phase,omitempty"`
}

// LfoModulation routes an LFO to a named target parameter.
//
// Layer targets: pitch, volume, filter_cutoff, pan, pulse_width, fm_index,
// grain_size, grain_density. Post-FX targets: delay_time, reverb_size,
// distortion_drive.
type LfoModulation struct {
	LfoConfig
	Target    string  `json:"target"`
	Amount    float64 `json:"amount,omitempty"`
	Semitones float64 `json:"semitones,omitempty"` // pitch target only
}

// Effect selects one effect by Type and carries its parameters. Effects are
// applied strictly in declaration order; order is semantically significant.
type Effect struct {
	Type string `json:"type"`

	// Delay family.
	TimeMs      float64 `json:"time_ms,omitempty"`
	Feedback    float64 `json:"feedback,omitempty"`
	Mix         float64 `json:"mix,omitempty"`
	Taps        int     `json:"taps,omitempty"`
	Spread      float64 `json:"spread,omitempty"`
	GrainSizeMs float64 `json:"grain_size_ms,omitempty"`

	// Modulated effects.
	RateHz  float64 `json:"rate_hz,omitempty"`
	DepthMs float64 `json:"depth_ms,omitempty"`
	Depth   float64 `json:"depth,omitempty"`
	Voices  int     `json:"voices,omitempty"`
	Stages  int     `json:"stages,omitempty"`

	// Reverb.
	RoomSize float64 `json:"room_size,omitempty"`
	Damping  float64 `json:"damping,omitempty"`

	// Dynamics.
	ThresholdDB float64 `json:"threshold_db,omitempty"`
	Ratio       float64 `json:"ratio,omitempty"`
	AttackMs    float64 `json:"attack_ms,omitempty"`
	ReleaseMs   float64 `json:"release_ms,omitempty"`
	MakeupDB    float64 `json:"makeup_db,omitempty"`
	CeilingDB   float64 `json:"ceiling_db,omitempty"`
	LookaheadMs float64 `json:"lookahead_ms,omitempty"`
	AttackGain  float64 `json:"attack_gain,omitempty"`
	SustainGain float64 `json:"sustain_gain,omitempty"`

	// Distortion.
	Drive            float64 `json:"drive,omitempty"`
	Curve            string  `json:"curve,omitempty"` // waveshaper transfer curve
	BitDepth         float64 `json:"bit_depth,omitempty"`
	SampleRateReduce float64 `json:"sample_rate_reduce,omitempty"`
	Wow              float64 `json:"wow,omitempty"`
	Flutter          float64 `json:"flutter,omitempty"`
	HissLevel        float64 `json:"hiss_level,omitempty"`

	// Spatial.
	Mode  string  `json:"mode,omitempty"` // stereo_widener: simple, haas, mid_side
	Width float64 `json:"width,omitempty"`

	// Parametric EQ.
	EQBands []EQBand `json:"bands,omitempty"`

	// Cabinet simulation.
	Cabinet string `json:"cabinet,omitempty"` // combo, stack, radio

	// Auto filter.
	Sensitivity float64 `json:"sensitivity,omitempty"`
	BaseCutoff  float64 `json:"base_cutoff,omitempty"`
	ResonanceQ  float64 `json:"resonance_q,omitempty"`

	// Ring modulator.
	Frequency float64 `json:"frequency,omitempty"`
}

// EQBand is one peaking band of a parametric EQ.
type EQBand struct {
	Frequency float64 `json:"frequency"`
	GainDB    float64 `json:"gain_db"`
	Q         float64 `json:"q,omitempty"`
}
