// Package chaos drives the two continuous values behind the chaos and
// explode phases: the chaos level and the explode scale.
package chaos

import (
	"math"
	"time"

	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/domain/model"
)

// Default ramp constants.
const (
	DefaultRampDuration = 4 * time.Second
	DefaultRampInterval = 16 * time.Millisecond
)

// RampOption configures a Ramp.
type RampOption func(*Ramp)

// WithRampDuration sets how long the level takes to reach 1.
func WithRampDuration(d time.Duration) RampOption {
	return func(r *Ramp) {
		if d > 0 {
			r.duration = d
		}
	}
}

// WithRampInterval sets the sampling interval.
func WithRampInterval(d time.Duration) RampOption {
	return func(r *Ramp) {
		if d > 0 {
			r.interval = d
		}
	}
}

// Ramp eases the chaos level in with a cubic curve during the chaos phase.
type Ramp struct {
	group    *clock.Group
	duration time.Duration
	interval time.Duration

	level float64
	start time.Duration
}

// NewRamp creates a ramp scheduling on s, at level 0.
func NewRamp(s clock.Scheduler, opts ...RampOption) *Ramp {
	r := &Ramp{
		group:    clock.NewGroup(s),
		duration: DefaultRampDuration,
		interval: DefaultRampInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetPhase reacts to a phase change: chaos starts the ramp from zero,
// explode pins the level at 1 and anything else resets it to 0.
func (r *Ramp) SetPhase(p model.Phase) {
	r.group.CancelAll()
	switch p {
	case model.PhaseChaos:
		r.level = 0
		r.start = r.group.Now()
		r.group.Every(r.interval, r.tick)
	case model.PhaseExplode:
		r.level = 1
	default:
		r.level = 0
	}
}

// Level returns the chaos level in [0,1].
func (r *Ramp) Level() float64 { return r.level }

// Stop cancels the ramp timer, keeping the level.
func (r *Ramp) Stop() { r.group.CancelAll() }

// Pending returns the number of timers the ramp owns.
func (r *Ramp) Pending() int { return r.group.Pending() }

func (r *Ramp) tick() {
	p := math.Min(float64(r.group.Now()-r.start)/float64(r.duration), 1)
	r.level = Ease(p)
	if p >= 1 {
		r.group.CancelAll()
	}
}

// Ease is the cubic ease-in used by the ramp.
func Ease(p float64) float64 {
	p = math.Max(0, math.Min(1, p))
	return p * p * p
}
