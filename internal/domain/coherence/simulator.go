// Package coherence simulates the collective stabilization of the signal:
// signatures arrive, stability follows the signature count and, once it is
// high enough, the signal is declared stable exactly once.
package coherence

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/domain/latch"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/pkg/logger"
)

// Default simulation constants.
const (
	defaultPeriod          = 2500 * time.Millisecond
	defaultJoinProbability = 0.7
	defaultTarget          = 20
	defaultSmoothing       = 0.1
	defaultThreshold       = 0.98
	defaultStabilizedDelay = 2 * time.Second

	// Simulated signatures land inside this margin of the field.
	fieldMargin = 0.15
	fieldSpan   = 0.7
)

// Simulator accumulates signatures and smooths stability toward the
// signature target.
type Simulator struct {
	group *clock.Group
	rng   *rand.Rand
	once  latch.Latch

	period          time.Duration
	joinProbability float64
	target          int
	smoothing       float64
	threshold       float64
	stabilizedDelay time.Duration

	signatures []model.Signature
	stability  float64
	stabilized bool
	queued     bool

	onStabilized func()
	onSignature  func(model.Signature, float64)
	onRecompute  func(float64)
	newID        func() string

	logger logger.Logger
}

// New creates a simulator scheduling on s.
func New(s clock.Scheduler, opts ...Option) *Simulator {
	sim := &Simulator{
		group:           clock.NewGroup(s),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // visual simulation only
		once:            latch.New(),
		period:          defaultPeriod,
		joinProbability: defaultJoinProbability,
		target:          defaultTarget,
		smoothing:       defaultSmoothing,
		threshold:       defaultThreshold,
		stabilizedDelay: defaultStabilizedDelay,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(sim)
	}
	if sim.threshold >= 1 && sim.smoothing < 1 {
		sim.threshold = defaultThreshold
	}
	if sim.newID == nil {
		sim.newID = sim.randomID
	}
	return sim
}

// Start clears all state. Arrivals begin only once the user signs.
func (s *Simulator) Start() {
	s.Reset()
}

// Reset cancels timers, drops every signature and clears the latches.
func (s *Simulator) Reset() {
	s.group.CancelAll()
	s.once.Reset()
	s.signatures = nil
	s.stability = 0
	s.stabilized = false
	s.queued = false
}

// Stop cancels all timers, keeping the accumulated state.
func (s *Simulator) Stop() {
	s.group.CancelAll()
	s.queued = false
}

// Sign adds the user's signature and starts simulated arrivals. Only the
// first call has any effect; it reports whether this call signed.
func (s *Simulator) Sign() bool {
	ctx := context.Background()
	if !s.once.Trip(latch.KeySigned) {
		return false
	}
	s.add(model.Signature{
		ID:        model.UserSignatureID,
		X:         0.5,
		Y:         0.5,
		Timestamp: s.group.Now(),
		IsUser:    true,
	})
	s.group.Every(s.period, s.arrive)
	s.logger.Info(ctx, "user signed", logger.Duration("at", s.group.Now()))
	return true
}

// Recompute moves stability one smoothing step toward min(1, n/target).
func (s *Simulator) Recompute() {
	s.queued = false
	goal := math.Min(1, float64(len(s.signatures))/float64(s.target))
	s.stability += (goal - s.stability) * s.smoothing
	s.stability = math.Max(0, math.Min(1, s.stability))
	if s.onRecompute != nil {
		s.onRecompute(s.stability)
	}

	if s.stability >= s.threshold && s.once.Trip(latch.KeyStabilized) {
		s.stabilized = true
		s.logger.Info(context.Background(), "signal stabilized",
			logger.Float64("stability", s.stability),
			logger.Int("signatures", len(s.signatures)),
		)
		s.group.After(s.stabilizedDelay, s.notify)
	}
}

// Signed reports whether the user has signed.
func (s *Simulator) Signed() bool { return s.once.Tripped(latch.KeySigned) }

// IsStabilized reports whether stability has crossed the threshold.
func (s *Simulator) IsStabilized() bool { return s.stabilized }

// Stability returns the current stability in [0,1].
func (s *Simulator) Stability() float64 { return s.stability }

// Signatures returns a copy of the signatures in arrival order.
func (s *Simulator) Signatures() []model.Signature {
	out := make([]model.Signature, len(s.signatures))
	copy(out, s.signatures)
	return out
}

// Pending returns the number of timers the simulator owns.
func (s *Simulator) Pending() int { return s.group.Pending() }

func (s *Simulator) arrive() {
	if s.rng.Float64() <= 1-s.joinProbability {
		return
	}
	s.add(model.Signature{
		ID:        s.newID(),
		X:         fieldMargin + s.rng.Float64()*fieldSpan,
		Y:         fieldMargin + s.rng.Float64()*fieldSpan,
		Timestamp: s.group.Now(),
	})
}

func (s *Simulator) add(sig model.Signature) {
	s.signatures = append(s.signatures, sig)
	if s.onSignature != nil {
		s.onSignature(sig, s.stability)
	}
	s.logger.Debug(context.Background(), "signature added",
		logger.String("id", sig.ID),
		logger.String("kind", sig.Kind()),
		logger.Int("count", len(s.signatures)),
	)
	// Changes made in the same update cycle share one recompute.
	if !s.queued {
		s.queued = true
		s.group.After(0, s.Recompute)
	}
}

func (s *Simulator) notify() {
	if !s.once.Trip(latch.KeyNotified) {
		return
	}
	if s.onStabilized != nil {
		s.onStabilized()
	}
}

func (s *Simulator) randomID() string {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
