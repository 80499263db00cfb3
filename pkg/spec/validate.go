package spec

import (
	"fmt"
	"math"
)

// MaxRenderSamples caps the per-render sample count: ten minutes at 192 kHz.
// Requests above the cap abort the whole asset.
const MaxRenderSamples = 600 * 192000

// UnsupportedTargetError reports an LFO target paired with an incompatible
// synthesis or effect type. It is detected before rendering begins.
type UnsupportedTargetError struct {
	Target string
	Reason string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported LFO target %q: %s", e.Target, e.Reason)
}

// RenderLimitError reports a requested sample count above MaxRenderSamples.
type RenderLimitError struct {
	Requested int
}

func (e *RenderLimitError) Error() string {
	return fmt.Sprintf("render of %d samples exceeds limit of %d", e.Requested, MaxRenderSamples)
}

// NumSamples returns the buffer length implied by the spec.
func (s *AudioSpec) NumSamples() int {
	return int(math.Round(s.DurationSeconds * float64(s.SampleRate)))
}

var layerTargets = map[string]bool{
	"pitch": true, "volume": true, "filter_cutoff": true, "pan": true,
	"pulse_width": true, "fm_index": true, "grain_size": true, "grain_density": true,
}

var postFxTargets = map[string]bool{
	"delay_time": true, "reverb_size": true, "distortion_drive": true,
}

// Validate performs the structural checks the engine depends on: LFO target
// pairing, post-FX target uniqueness and the render size cap. Numeric range
// drift is not an error; the engine clamps it.
func (s *AudioSpec) Validate() error {
	if n := s.NumSamples(); n > MaxRenderSamples {
		return &RenderLimitError{Requested: n}
	}

	for i := range s.Layers {
		l := &s.Layers[i]
		if l.Lfo == nil {
			continue
		}
		if err := validateLayerTarget(l, i); err != nil {
			return err
		}
	}

	seen := map[string]bool{}
	for i := range s.PostFxLfos {
		m := &s.PostFxLfos[i]
		if layerTargets[m.Target] {
			return &UnsupportedTargetError{
				Target: m.Target,
				Reason: "layer target used on a post-FX LFO",
			}
		}
		if !postFxTargets[m.Target] {
			return &UnsupportedTargetError{Target: m.Target, Reason: "unknown post-FX target"}
		}
		if seen[m.Target] {
			return &UnsupportedTargetError{
				Target: m.Target,
				Reason: "at most one post-FX LFO per target",
			}
		}
		seen[m.Target] = true
		if err := s.validatePostFxPairing(m.Target); err != nil {
			return err
		}
	}
	return nil
}

func validateLayerTarget(l *Layer, index int) error {
	target := l.Lfo.Target
	if postFxTargets[target] {
		return &UnsupportedTargetError{
			Target: target,
			Reason: fmt.Sprintf("post-FX target used on layer %d LFO", index),
		}
	}
	if !layerTargets[target] {
		return &UnsupportedTargetError{Target: target, Reason: "unknown layer target"}
	}

	synthType := l.Synthesis.Type
	switch target {
	case "pulse_width":
		if !pulseCapable(&l.Synthesis) {
			return &UnsupportedTargetError{
				Target: target,
				Reason: fmt.Sprintf("layer %d synthesis %q has no pulse width", index, synthType),
			}
		}
	case "fm_index":
		if synthType != "fm_synth" && synthType != "feedback_fm" {
			return &UnsupportedTargetError{
				Target: target,
				Reason: fmt.Sprintf("layer %d synthesis %q has no FM index", index, synthType),
			}
		}
	case "grain_size", "grain_density":
		if synthType != "granular" && synthType != "pulsar" {
			return &UnsupportedTargetError{
				Target: target,
				Reason: fmt.Sprintf("layer %d synthesis %q has no grains", index, synthType),
			}
		}
	case "filter_cutoff":
		if l.Filter == nil || !cutoffStyle(l.Filter.Type) {
			return &UnsupportedTargetError{
				Target: target,
				Reason: fmt.Sprintf("layer %d has no cutoff-style filter", index),
			}
		}
	}
	return nil
}

func pulseCapable(s *Synthesis) bool {
	switch s.Type {
	case "oscillator", "multi_oscillator":
		return s.Waveform == "pulse" || s.Waveform == "square"
	case "pd_synth":
		return true
	}
	return false
}

func cutoffStyle(filterType string) bool {
	switch filterType {
	case "lowpass", "highpass", "bandpass", "notch", "allpass", "ladder":
		return true
	}
	return false
}

func (s *AudioSpec) validatePostFxPairing(target string) error {
	ok := false
	for i := range s.Effects {
		e := &s.Effects[i]
		switch target {
		case "delay_time":
			switch e.Type {
			case "delay", "multi_tap_delay", "flanger", "granular_delay":
				ok = true
			case "stereo_widener":
				if e.Mode == "haas" {
					ok = true
				}
			}
		case "reverb_size":
			if e.Type == "reverb" {
				ok = true
			}
		case "distortion_drive":
			if e.Type == "waveshaper" || e.Type == "tape_saturation" {
				ok = true
			}
		}
	}
	if !ok {
		return &UnsupportedTargetError{
			Target: target,
			Reason: "no compatible effect in the chain",
		}
	}
	return nil
}
