// Package engine renders an AudioSpec into a stereo float64 PCM buffer.
// Rendering is a single deterministic pass: the same (seed, spec) pair
// always yields byte-identical output. Layers synthesize in parallel, but
// the mixer sums them in declaration order so the parallelism is never
// observable in the result.
package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/pan"
	"github.com/SpecCade/SpecCade-sub003/pkg/fx"
	"github.com/SpecCade/SpecCade-sub003/pkg/rng"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
	"github.com/SpecCade/SpecCade-sub003/pkg/synth"
)

// headroomDB is the normalization target below full scale.
const headroomDB = -3.0

// Result is a finished render: stereo PCM plus loop metadata and metering.
type Result struct {
	Left       []float64
	Right      []float64
	SampleRate int

	// Loop metadata, present only when the spec asked for loop points and
	// had at least one layer.
	HasLoop   bool
	LoopStart int
	LoopEnd   int

	// Peak is the absolute peak before normalization.
	Peak float64
}

// renderedLayer is one layer after its full mono pipeline, waiting to be
// mixed.
type renderedLayer struct {
	samples []float64
	mod     *layerMod
}

// Render executes the full pipeline: per-layer synthesis, envelope and
// filter, declaration-order mixing, master filter, effects chain, and
// normalization.
func Render(ctx context.Context, s *spec.AudioSpec) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	// Reject unknown synthesis types up front so the error does not depend
	// on which layer goroutine fails first.
	for i := range s.Layers {
		if name := s.Layers[i].Synthesis.Type; !synth.Types(name) {
			return nil, fmt.Errorf("layer %d: unknown synthesis type %q", i, name)
		}
	}
	n := s.NumSamples()
	sampleRate := float64(s.SampleRate)

	res := &Result{
		Left:       make([]float64, n),
		Right:      make([]float64, n),
		SampleRate: s.SampleRate,
	}
	if n == 0 {
		return res, nil
	}

	pitchScale := buildPitchScale(s.PitchEnvelope, n, sampleRate)

	// Each layer is independent of every other, so synthesis, envelope and
	// filtering run concurrently. Only mixing is order-sensitive.
	layers := make([]renderedLayer, len(s.Layers))
	g, _ := errgroup.WithContext(ctx)
	for idx := range s.Layers {
		idx := idx
		g.Go(func() error {
			l := &s.Layers[idx]
			mod := buildLayerMod(l, n, sampleRate, pitchScale)
			stream := rng.Derive(s.Seed, "layer", strconv.Itoa(idx))
			buf, err := synth.Generate(n, sampleRate, &l.Synthesis, mod.synthMod, stream)
			if err != nil {
				return fmt.Errorf("layer %d: %w", idx, err)
			}
			newADSR(&l.Envelope).Apply(buf, sampleRate)
			if mod.amp != nil {
				for i := range buf {
					buf[i] *= mod.amp[i]
				}
			}
			applyFilter(buf, l.Filter, mod.cutoff, sampleRate)
			layers[idx] = renderedLayer{samples: buf, mod: mod}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for idx := range layers {
		mixLayer(res.Left, res.Right, &s.Layers[idx], &layers[idx], sampleRate)
	}

	applyFilterStereo(res.Left, res.Right, s.MasterFilter, sampleRate)

	curves := buildPostFxCurves(s.PostFxLfos, n, sampleRate)
	chain, err := fx.NewChain(s.Effects, sampleRate, s.Seed, curves)
	if err != nil {
		return nil, err
	}
	chain.Process(res.Left, res.Right)

	res.Peak = normalize(res.Left, res.Right)

	if s.GenerateLoopPoints && len(s.Layers) > 0 {
		// A one-shot envelope has no sustain region, so there is nothing
		// to loop.
		env := newADSR(&s.Layers[0].Envelope)
		if !env.OneShot() {
			res.HasLoop = true
			res.LoopStart = int(math.Round(env.LoopStart() * sampleRate))
			if res.LoopStart > n {
				res.LoopStart = n
			}
			res.LoopEnd = n
		}
	}
	return res, nil
}

// mixLayer adds one processed layer into the master buffer: delay padding,
// volume scale, constant-power pan. A pan LFO switches to per-sample gains;
// otherwise the gains are computed once.
func mixLayer(left, right []float64, l *spec.Layer, r *renderedLayer, sampleRate float64) {
	volume := l.Volume
	if volume < 0 {
		volume = 0
	}
	offset := int(math.Round(l.Delay * sampleRate))

	if r.mod.pan != nil {
		for i, s := range r.samples {
			pos := offset + i
			if pos >= len(left) {
				break
			}
			gl, gr := pan.Gains(r.mod.pan[i])
			left[pos] += s * volume * gl
			right[pos] += s * volume * gr
		}
		return
	}
	pan.AddMono(r.samples, volume, l.Pan, offset, left, right)
}

// normalize scales both channels to the -3 dB headroom target and returns
// the pre-normalization peak. Silence is left untouched.
func normalize(left, right []float64) float64 {
	var peak float64
	for i := range left {
		if a := math.Abs(left[i]); a > peak {
			peak = a
		}
		if a := math.Abs(right[i]); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return 0
	}
	scale := math.Pow(10.0, headroomDB/20.0) / peak
	for i := range left {
		left[i] *= scale
		right[i] *= scale
	}
	return peak
}
