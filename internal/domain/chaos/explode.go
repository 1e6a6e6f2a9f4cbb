package chaos

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/domain/model"
)

// Default explode spring constants.
const (
	DefaultExplodeScale = 12.0
	defaultSpringFPS    = 60
	defaultFrequency    = 2.0
	defaultDamping      = 1.0
	settleEpsilon       = 1e-3
)

// ExplodeOption configures an Explode.
type ExplodeOption func(*Explode)

// WithExplodeScale sets the scale targeted during the explode phase.
func WithExplodeScale(scale float64) ExplodeOption {
	return func(e *Explode) {
		if scale >= 1 {
			e.peak = scale
		}
	}
}

// WithSpring sets the spring's frame rate, angular frequency and damping ratio.
func WithSpring(fps int, frequency, damping float64) ExplodeOption {
	return func(e *Explode) {
		if fps > 0 && frequency > 0 && damping > 0 {
			e.fps = fps
			e.frequency = frequency
			e.damping = damping
		}
	}
}

// Explode springs the signal scale toward its target: the peak scale in the
// explode phase and 1 everywhere else.
type Explode struct {
	group     *clock.Group
	spring    harmonica.Spring
	fps       int
	frequency float64
	damping   float64
	peak      float64

	pos, vel, target float64
	running          bool
}

// NewExplode creates a resting explode driver at scale 1.
func NewExplode(s clock.Scheduler, opts ...ExplodeOption) *Explode {
	e := &Explode{
		group:     clock.NewGroup(s),
		fps:       defaultSpringFPS,
		frequency: defaultFrequency,
		damping:   defaultDamping,
		peak:      DefaultExplodeScale,
		pos:       1,
		target:    1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.spring = harmonica.NewSpring(harmonica.FPS(e.fps), e.frequency, e.damping)
	return e
}

// SetPhase retargets the spring for p.
func (e *Explode) SetPhase(p model.Phase) {
	target := 1.0
	if p == model.PhaseExplode {
		target = e.peak
	}
	if target == e.target && !e.running && e.pos == target {
		return
	}
	e.target = target
	if !e.running {
		e.running = true
		e.group.Every(time.Second/time.Duration(e.fps), e.step)
	}
}

// Scale returns the current scale.
func (e *Explode) Scale() float64 { return e.pos }

// Target returns the scale the spring is heading to.
func (e *Explode) Target() float64 { return e.target }

// Snap puts the spring at rest at scale 1.
func (e *Explode) Snap() {
	e.group.CancelAll()
	e.running = false
	e.pos, e.vel, e.target = 1, 0, 1
}

// Stop cancels the spring timer, keeping the current scale.
func (e *Explode) Stop() {
	e.group.CancelAll()
	e.running = false
}

// Pending returns the number of timers the driver owns.
func (e *Explode) Pending() int { return e.group.Pending() }

func (e *Explode) step() {
	e.pos, e.vel = e.spring.Update(e.pos, e.vel, e.target)
	if math.Abs(e.pos-e.target) < settleEpsilon && math.Abs(e.vel) < settleEpsilon {
		e.pos, e.vel = e.target, 0
		e.Stop()
	}
}
