// Package noise generates white, pink and brown noise from an injected
// deterministic stream. Generators never own their randomness; the caller
// derives a stream per component so noise in one layer cannot perturb
// another.
package noise

import "github.com/SpecCade/SpecCade-sub003/pkg/rng"

// Color selects the noise spectrum.
type Color int

const (
	// White has equal energy at all frequencies.
	White Color = iota
	// Pink has equal energy per octave.
	Pink
	// Brown has a 1/f^2 spectrum.
	Brown
)

// ParseColor maps a spec color name to a Color. Unknown names fall back to
// white.
func ParseColor(name string) Color {
	switch name {
	case "pink":
		return Pink
	case "brown":
		return Brown
	default:
		return White
	}
}

// Generator produces one noise color from a derived stream.
type Generator struct {
	color  Color
	stream *rng.Stream

	// Pink noise rows, Voss-McCartney.
	pinkRows [16]float64
	pinkSum  float64
	pinkIdx  int

	// Brown noise integrator.
	brownState float64
}

// New creates a generator that draws from the given stream.
func New(color Color, stream *rng.Stream) *Generator {
	g := &Generator{color: color, stream: stream}
	if color == Pink {
		for i := range g.pinkRows {
			g.pinkRows[i] = stream.Bipolar()
			g.pinkSum += g.pinkRows[i]
		}
	}
	return g
}

// Next generates the next sample in [-1,1].
func (g *Generator) Next() float64 {
	switch g.color {
	case Pink:
		return g.nextPink()
	case Brown:
		return g.nextBrown()
	default:
		return g.stream.Bipolar()
	}
}

// Fill fills a buffer with noise.
func (g *Generator) Fill(buffer []float64) {
	for i := range buffer {
		buffer[i] = g.Next()
	}
}

func (g *Generator) nextPink() float64 {
	g.pinkIdx++
	if g.pinkIdx > 15 {
		g.pinkIdx = 0
	}
	if g.pinkIdx != 0 {
		numZeros := 0
		for n := g.pinkIdx; n&1 == 0; n >>= 1 {
			numZeros++
		}
		g.pinkSum -= g.pinkRows[numZeros]
		g.pinkRows[numZeros] = g.stream.Bipolar()
		g.pinkSum += g.pinkRows[numZeros]
	}

	out := (g.pinkSum + g.stream.Bipolar()) / 20.0 * 4.0
	if out > 1.0 {
		out = 1.0
	} else if out < -1.0 {
		out = -1.0
	}
	return out
}

func (g *Generator) nextBrown() float64 {
	g.brownState += g.stream.Bipolar() * 0.0625
	// Leaky integrator, keeps DC from accumulating.
	g.brownState *= 0.997
	if g.brownState > 1.0 {
		g.brownState = 1.0
	} else if g.brownState < -1.0 {
		g.brownState = -1.0
	}
	return g.brownState
}
