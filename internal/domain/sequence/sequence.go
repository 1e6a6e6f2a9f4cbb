// Package sequence drives the timed phase machine of the landing experience.
// It is the only component that starts timed phase transitions.
package sequence

import (
	"context"

	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/domain/latch"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/pkg/logger"
)

// Sequencer moves through intro, transition, chaos, explode and reveal on a
// fixed timeline, then waits for the user to enter coherence.
type Sequencer struct {
	group *clock.Group
	cues  Cues
	once  latch.Latch

	phase        model.Phase
	breakthrough bool
	exploding    bool
	active       bool

	onPhaseChange     func(model.Phase)
	onBreakthrough    func()
	onBreakthroughEnd func()

	logger logger.Logger
}

// New creates a sequencer scheduling on s. It is inactive until Start.
func New(s clock.Scheduler, opts ...Option) *Sequencer {
	seq := &Sequencer{
		group:  clock.NewGroup(s),
		cues:   DefaultCues(),
		once:   latch.New(),
		phase:  model.PhaseIntro,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(seq)
	}
	return seq
}

// Start cancels anything pending, returns to intro and schedules the timeline
// relative to now.
func (s *Sequencer) Start() {
	s.Reset()
	s.active = true
	s.logger.Debug(context.Background(), "sequence started", logger.Duration("at", s.group.Now()))
	s.emit(model.PhaseIntro)

	s.group.After(s.cues.Breakthrough, s.beginBreakthrough)
	s.group.After(s.cues.Transition, func() { s.set(model.PhaseTransition) })
	s.group.After(s.cues.Chaos, func() { s.set(model.PhaseChaos) })
	s.group.After(s.cues.Explode, func() {
		s.exploding = true
		s.set(model.PhaseExplode)
	})
	s.group.After(s.cues.Reveal, func() {
		s.exploding = false
		s.set(model.PhaseReveal)
	})
}

// Reset cancels pending timers and restores the intro state without
// scheduling anything.
func (s *Sequencer) Reset() {
	s.group.CancelAll()
	s.once.Reset()
	s.phase = model.PhaseIntro
	s.breakthrough = false
	s.exploding = false
	s.active = false
}

// Stop invalidates all pending timers. The current phase is kept.
func (s *Sequencer) Stop() {
	s.group.CancelAll()
	s.breakthrough = false
	s.active = false
}

// EnterCoherence moves from reveal to coherence. It returns false, doing
// nothing, in any other phase.
func (s *Sequencer) EnterCoherence() bool {
	if s.phase != model.PhaseReveal || !s.once.Trip(latch.KeyCoherence) {
		return false
	}
	s.group.CancelAll()
	s.active = false
	s.set(model.PhaseCoherence)
	return true
}

// Stabilized moves from coherence to final. No-op in any other phase.
func (s *Sequencer) Stabilized() {
	if s.phase != model.PhaseCoherence {
		return
	}
	s.set(model.PhaseFinal)
}

// Phase returns the current phase.
func (s *Sequencer) Phase() model.Phase { return s.phase }

// Breakthrough reports whether the breakthrough text is visible.
func (s *Sequencer) Breakthrough() bool { return s.breakthrough }

// Exploding reports whether the explosion fade is visible.
func (s *Sequencer) Exploding() bool { return s.exploding }

// Active reports whether the timeline is running.
func (s *Sequencer) Active() bool { return s.active }

// Pending returns the number of timers the sequencer still owns.
func (s *Sequencer) Pending() int { return s.group.Pending() }

func (s *Sequencer) beginBreakthrough() {
	s.breakthrough = true
	if s.onBreakthrough != nil {
		s.onBreakthrough()
	}
	s.group.After(s.cues.BreakthroughHold, func() {
		s.breakthrough = false
		if s.onBreakthroughEnd != nil {
			s.onBreakthroughEnd()
		}
	})
}

func (s *Sequencer) set(p model.Phase) {
	if s.phase == p {
		return
	}
	s.phase = p
	s.logger.Info(context.Background(), "phase changed",
		logger.String("phase", p.String()),
		logger.Duration("at", s.group.Now()),
	)
	s.emit(p)
}

func (s *Sequencer) emit(p model.Phase) {
	if s.onPhaseChange != nil {
		s.onPhaseChange(p)
	}
}
