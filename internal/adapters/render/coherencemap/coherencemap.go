// Package coherencemap draws the four coherence visualizations. Each one
// lights its elements progressively as stability rises and plots the
// signatures on top.
package coherencemap

import (
	"math"
	"time"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/domain/model"
)

// Logical drawing space shared by every map.
const (
	Size   = 400.0
	center = Size / 2
)

// State is what a map needs to draw one frame.
type State struct {
	Stability  float64
	Signatures []model.Signature
	Elapsed    time.Duration
}

// Renderer draws one coherence visualization.
type Renderer interface {
	Variant() model.CoherenceVariant
	Draw(c *render.Canvas, st State)
}

// ForVariant returns the renderer for v. seed fixes any random layout.
// Unknown variants get the geometry map.
func ForVariant(v model.CoherenceVariant, seed int64) Renderer {
	switch v {
	case model.CoherenceNeural:
		return NewNeural(seed)
	case model.CoherenceWaveform:
		return NewWaveform()
	case model.CoherenceEnergy:
		return NewEnergy(seed)
	default:
		return NewGeometry()
	}
}

// pen converts logical coordinates into canvas cells.
type pen struct {
	c    *render.Canvas
	unit float64
}

func newPen(c *render.Canvas) pen {
	return pen{c: c, unit: c.Unit(Size, Size)}
}

func (p pen) at(x, y float64) (float64, float64) {
	return p.c.Project(x, y, Size, Size)
}

func (p pen) cell(x, y float64) (int, int) {
	cx, cy := p.at(x, y)
	return int(math.Round(cx)), int(math.Round(cy))
}

func (p pen) ring(x, y, r float64, glyph rune, tone render.Tone, alpha float64) {
	cx, cy := p.at(x, y)
	p.c.Ring(cx, cy, r*p.unit, glyph, tone, alpha)
}

func (p pen) disc(x, y, r float64, glyph rune, tone render.Tone, alpha float64) {
	cx, cy := p.at(x, y)
	p.c.Circle(cx, cy, r*p.unit, glyph, tone, alpha)
}

func (p pen) line(x0, y0, x1, y1 float64, glyph rune, tone render.Tone, alpha float64) {
	ax, ay := p.cell(x0, y0)
	bx, by := p.cell(x1, y1)
	p.c.Line(ax, ay, bx, by, glyph, tone, alpha)
}

// mark plots a signature over whatever is below it.
func (p pen) mark(x, y float64, sig model.Signature, other render.Tone) {
	cx, cy := p.cell(x, y)
	if sig.IsUser {
		p.c.Set(cx, cy, '@', render.ToneGold, 1)
		return
	}
	p.c.Set(cx, cy, '●', other, 0.9)
}
