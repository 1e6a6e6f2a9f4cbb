package coherence

import (
	"math/rand"
	"time"

	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/pkg/logger"
)

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithRand sets the random source for arrivals and positions.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithPeriod sets the interval between simulated arrivals.
func WithPeriod(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.period = d
		}
	}
}

// WithJoinProbability sets the chance that an arrival tick adds a signature.
func WithJoinProbability(p float64) Option {
	return func(s *Simulator) {
		if p >= 0 && p <= 1 {
			s.joinProbability = p
		}
	}
}

// WithTargetSignatures sets the signature count that means full coherence.
func WithTargetSignatures(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.target = n
		}
	}
}

// WithSmoothing sets the fraction of the gap closed per recompute.
func WithSmoothing(f float64) Option {
	return func(s *Simulator) {
		if f > 0 && f <= 1 {
			s.smoothing = f
		}
	}
}

// WithThreshold sets the stability at which the signal counts as stabilized.
// A threshold of 1 is only kept together with a smoothing of 1, since smoothed
// stability never reaches 1 otherwise; New falls back to the default.
func WithThreshold(t float64) Option {
	return func(s *Simulator) {
		if t > 0 && t <= 1 {
			s.threshold = t
		}
	}
}

// WithStabilizedDelay sets the wait between stabilizing and notifying.
func WithStabilizedDelay(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.stabilizedDelay = d
		}
	}
}

// WithOnStabilized registers the one-shot stabilized listener.
func WithOnStabilized(fn func()) Option {
	return func(s *Simulator) {
		s.onStabilized = fn
	}
}

// WithOnSignature registers a listener for every added signature.
func WithOnSignature(fn func(model.Signature, float64)) Option {
	return func(s *Simulator) {
		s.onSignature = fn
	}
}

// WithOnRecompute registers a listener called after each stability update.
func WithOnRecompute(fn func(stability float64)) Option {
	return func(s *Simulator) {
		s.onRecompute = fn
	}
}

// WithIDGenerator overrides how simulated signature IDs are made.
func WithIDGenerator(fn func() string) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}
