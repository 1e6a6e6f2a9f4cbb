package sequence

import (
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/pkg/logger"
)

// Option applies a configuration option to the Sequencer.
type Option func(*Sequencer)

// WithOnPhaseChange registers the phase change listener.
func WithOnPhaseChange(fn func(model.Phase)) Option {
	return func(s *Sequencer) {
		s.onPhaseChange = fn
	}
}

// WithOnBreakthrough registers the listener for the start of the breakthrough pulse.
func WithOnBreakthrough(fn func()) Option {
	return func(s *Sequencer) {
		s.onBreakthrough = fn
	}
}

// WithOnBreakthroughEnd registers the listener for the end of the breakthrough pulse.
func WithOnBreakthroughEnd(fn func()) Option {
	return func(s *Sequencer) {
		s.onBreakthroughEnd = fn
	}
}

// WithCues overrides the timeline. Invalid cues are ignored.
func WithCues(c Cues) Option {
	return func(s *Sequencer) {
		if c.Validate() == nil {
			s.cues = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}
