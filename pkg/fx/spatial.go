package fx

import (
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/delay"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// stereoWidener widens the image in one of three modes. "simple" scales the
// side signal, "mid_side" scales both mid and side against each other, and
// "haas" delays the right channel a few milliseconds, blended by width
// (width 2 is fully delayed); the Haas delay time is a delay_time
// modulation target.
type stereoWidener struct {
	sampleRate float64
	mode       string
	width      float64
	timeMs     float64
	line       *delay.Line
	curves     *Curves
}

func newStereoWidener(e *spec.Effect, sampleRate float64, curves *Curves) *stereoWidener {
	mode := e.Mode
	if mode == "" {
		mode = "simple"
	}
	w := &stereoWidener{
		sampleRate: sampleRate,
		mode:       mode,
		width:      clamp(defaultIfZero(e.Width, 1.5), 0, 2),
		timeMs:     clamp(defaultIfZero(e.TimeMs, 15.0), 1.0, 40.0),
		curves:     curves,
	}
	if mode == "haas" {
		w.line = delay.New((w.timeMs+40.0)/1000.0, sampleRate)
	}
	return w
}

func (w *stereoWidener) Process(left, right []float64) {
	switch w.mode {
	case "haas":
		wet := clamp(w.width*0.5, 0, 1)
		for i := range left {
			ms := clamp(w.timeMs+w.curves.delayTimeAt(i), 0.5, w.timeMs+40.0)
			w.line.Write(right[i])
			delayed := w.line.Read(ms * w.sampleRate / 1000.0)
			right[i] = right[i]*(1.0-wet) + delayed*wet
		}
	case "mid_side":
		// Trade mid level against side level so the overall energy stays
		// roughly constant.
		midGain := 2.0 - w.width
		for i := range left {
			mid := (left[i] + right[i]) * 0.5
			side := (left[i] - right[i]) * 0.5
			left[i] = mid*midGain + side*w.width
			right[i] = mid*midGain - side*w.width
		}
	default: // "simple"
		for i := range left {
			mid := (left[i] + right[i]) * 0.5
			side := (left[i] - right[i]) * 0.5 * w.width
			left[i] = mid + side
			right[i] = mid - side
		}
	}
}
