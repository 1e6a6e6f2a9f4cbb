package coherencemap

import (
	"math"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/domain/coherence"
	"github.com/okian/fracture/internal/domain/model"
)

const (
	petalRadius    = 40.0
	geometryGrowth = 3.0
)

// Point is a position in the logical drawing space.
type Point struct{ X, Y float64 }

// Geometry is the flower of life: a centre circle, a ring of six and a
// ring of twelve, lit from the centre outwards.
type Geometry struct {
	circles []Point
}

// NewGeometry lays out the nineteen circles.
func NewGeometry() *Geometry {
	g := &Geometry{circles: []Point{{center, center}}}
	for i := range 6 {
		a := float64(i) * 2 * math.Pi / 6
		g.circles = append(g.circles, Point{center + petalRadius*math.Cos(a), center + petalRadius*math.Sin(a)})
	}
	for i := range 12 {
		a := float64(i)*2*math.Pi/12 + math.Pi/12
		d := petalRadius * 1.73
		g.circles = append(g.circles, Point{center + d*math.Cos(a), center + d*math.Sin(a)})
	}
	return g
}

// Variant implements Renderer.
func (g *Geometry) Variant() model.CoherenceVariant { return model.CoherenceGeometry }

// Circles returns the circle centres in activation order.
func (g *Geometry) Circles() []Point { return g.circles }

// Draw implements Renderer.
func (g *Geometry) Draw(c *render.Canvas, st State) {
	p := newPen(c)
	s := st.Stability

	p.ring(center, center, 150+s*30, '·', render.ToneDeepViolet, 0.1+s*0.2)
	for i, pt := range g.circles {
		gate := coherence.Activation(i, len(g.circles), s, geometryGrowth)
		if gate.Active {
			p.ring(pt.X, pt.Y, petalRadius, '•', render.ToneViolet, 0.4+gate.Intensity*0.6)
			continue
		}
		p.ring(pt.X, pt.Y, petalRadius, '·', render.ToneInactive, 0.15)
	}
	p.disc(center, center, 5+s*15, '@', render.ToneGold, 0.3+s*0.7)

	for _, sig := range st.Signatures {
		p.mark(sig.X*Size, sig.Y*Size, sig, render.ToneViolet)
	}
}
