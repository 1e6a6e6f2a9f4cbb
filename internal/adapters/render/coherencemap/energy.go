package coherencemap

import (
	"math"
	"math/rand"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/domain/coherence"
	"github.com/okian/fracture/internal/domain/model"
)

const (
	energyParticles = 50
	energyRings     = 5
	ringGrowth      = 2.0
	solidRingsAt    = 0.8
)

type particle struct {
	id     int
	angle  float64
	radius float64
	speed  float64
	offset float64
}

// Energy is a cloud of particles that settles from scattered motion into
// orbits around a glowing core.
type Energy struct {
	particles []particle
}

// NewEnergy seeds the particles. The same seed gives the same cloud.
func NewEnergy(seed int64) *Energy {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // layout only
	e := &Energy{}
	for i := range energyParticles {
		e.particles = append(e.particles, particle{
			id:     i,
			angle:  float64(i) / energyParticles * 2 * math.Pi,
			radius: 80 + float64(i%energyRings)*25,
			speed:  0.3 + rng.Float64()*0.4,
			offset: rng.Float64() * 2 * math.Pi,
		})
	}
	return e
}

// Variant implements Renderer.
func (e *Energy) Variant() model.CoherenceVariant { return model.CoherenceEnergy }

// Position interpolates particle i between its chaotic and orbital places.
func (e *Energy) Position(i int, stability, t float64) Point {
	pt := e.particles[i]
	chaos := 1 - stability
	chaoticAngle := pt.angle + math.Sin(t*pt.speed+pt.offset)*2*chaos
	chaoticRadius := pt.radius + math.Sin(t*0.7+float64(pt.id))*50*chaos
	angle := chaoticAngle*chaos + (pt.angle+t*0.2)*stability
	radius := chaoticRadius*chaos + pt.radius*stability
	return Point{center + math.Cos(angle)*radius, center + math.Sin(angle)*radius}
}

// Draw implements Renderer.
func (e *Energy) Draw(c *render.Canvas, st State) {
	p := newPen(c)
	s := st.Stability
	t := st.Elapsed.Seconds()

	glyph := '∙'
	if s > solidRingsAt {
		glyph = '•'
	}
	for i := range energyRings {
		r := 80 + float64(i)*25
		gate := coherence.Activation(i, energyRings, s, ringGrowth)
		if gate.Active {
			p.ring(center, center, r, glyph, render.ToneViolet, 0.1+s*0.2+gate.Intensity*0.4)
			continue
		}
		p.ring(center, center, r, '·', render.ToneInactive, 0.1)
	}

	p.disc(center, center, 30+s*40, '░', render.ToneDeepViolet, 0.3*s)
	p.disc(center, center, 10+s*15, '@', render.ToneGold, 0.3+s*0.5)

	for i := range e.particles {
		pos := e.Position(i, s, t)
		x, y := p.cell(pos.X, pos.Y)
		c.Blend(x, y, '*', render.ToneViolet, 0.3+s*0.7)
	}

	for _, sig := range st.Signatures {
		r := ((1-s)*150 + 50) * sig.Y
		a := sig.X*2*math.Pi + t*0.3
		p.mark(center+math.Cos(a)*r, center+math.Sin(a)*r, sig, render.ToneCyan)
	}
}
