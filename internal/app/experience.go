// Package app wires the phase sequencer, the coherence simulator and the
// chaos drivers into one landing experience, advanced frame by frame.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/config"
	"github.com/okian/fracture/internal/domain/chaos"
	"github.com/okian/fracture/internal/domain/coherence"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/internal/domain/sequence"
	"github.com/okian/fracture/pkg/logger"
	"github.com/okian/fracture/pkg/metrics"
)

// Breakthrough pulse shape.
const (
	PulseDuration = 800 * time.Millisecond
	pulseBoost    = 0.4
	pulseCap      = 0.75
)

// EffectiveIntensity is the background intensity with the breakthrough
// pulse applied.
func EffectiveIntensity(base float64, pulse bool) float64 {
	if !pulse {
		return base
	}
	return min(base+pulseBoost, pulseCap)
}

// Experience is the landing page state. Every mutating method takes the
// lock, so Snapshot can be read from other goroutines.
type Experience struct {
	mu sync.RWMutex

	timeline *clock.Timeline
	group    *clock.Group
	seq      *sequence.Sequencer
	sim      *coherence.Simulator
	ramp     *chaos.Ramp
	explode  *chaos.Explode

	seed             int64
	phase            model.Phase
	signal           model.SignalVariant
	coherenceVariant model.CoherenceVariant
	initialSignal    model.SignalVariant
	initialCoherence model.CoherenceVariant
	pulse            bool
	started          bool
	restarts         int
	sequenceStart    time.Duration

	onPhaseChange func(model.Phase)
	logger        logger.Logger
}

// Option applies a configuration option to the Experience.
type Option func(*Experience)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Experience) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOnPhaseChange registers a listener called, under the lock, after every
// phase change. It must not call back into the Experience.
func WithOnPhaseChange(fn func(model.Phase)) Option {
	return func(e *Experience) {
		e.onPhaseChange = fn
	}
}

// New builds an idle experience from cfg.
func New(cfg *config.Config, opts ...Option) (*Experience, error) {
	sig, err := model.ParseSignalVariant(cfg.SignalVariant)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	coh, err := model.ParseCoherenceVariant(cfg.CoherenceVariant)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	cues := sequence.Cues{
		Breakthrough:     config.Ms(cfg.BreakthroughMS),
		BreakthroughHold: sequence.DefaultCues().BreakthroughHold,
		Transition:       config.Ms(cfg.TransitionMS),
		Chaos:            config.Ms(cfg.ChaosMS),
		Explode:          config.Ms(cfg.ExplodeMS),
		Reveal:           config.Ms(cfg.RevealMS),
	}
	if err := cues.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Experience{
		timeline:         clock.NewTimeline(),
		seed:             seed,
		phase:            model.PhaseIntro,
		signal:           sig,
		coherenceVariant: coh,
		initialSignal:    sig,
		initialCoherence: coh,
		logger:           logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.group = clock.NewGroup(e.timeline)

	e.seq = sequence.New(e.timeline,
		sequence.WithCues(cues),
		sequence.WithOnPhaseChange(e.setPhase),
		sequence.WithOnBreakthrough(e.beginPulse),
		sequence.WithLogger(e.logger),
	)
	e.sim = coherence.New(e.timeline,
		coherence.WithRand(rand.New(rand.NewSource(seed))), //nolint:gosec // visual simulation only
		coherence.WithPeriod(config.Ms(cfg.SignaturePeriodMS)),
		coherence.WithJoinProbability(cfg.JoinProbability),
		coherence.WithTargetSignatures(cfg.TargetSignatures),
		coherence.WithSmoothing(cfg.Smoothing),
		coherence.WithThreshold(cfg.StabilizedThreshold),
		coherence.WithStabilizedDelay(config.Ms(cfg.StabilizedDelayMS)),
		coherence.WithOnSignature(e.signatureAdded),
		coherence.WithOnRecompute(metrics.UpdateStability),
		coherence.WithOnStabilized(e.stabilized),
		coherence.WithLogger(e.logger),
	)
	e.ramp = chaos.NewRamp(e.timeline, chaos.WithRampDuration(config.Ms(cfg.ChaosRampMS)))
	e.explode = chaos.NewExplode(e.timeline)
	return e, nil
}

var _ clock.Stepper = (*Experience)(nil)

// Start runs the landing sequence from intro. Starting twice is a no-op.
func (e *Experience) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	e.started = true
	e.logger.Info(ctx, "starting experience",
		logger.String("signal", string(e.signal)),
		logger.String("coherence", string(e.coherenceVariant)),
		logger.Any("seed", e.seed),
	)
	e.restartSequence()
	return nil
}

// Stop cancels every pending timer. State is kept for a final Snapshot.
func (e *Experience) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	e.seq.Stop()
	e.sim.Stop()
	e.ramp.Stop()
	e.explode.Stop()
	e.group.CancelAll()
	e.pulse = false
	e.started = false
	e.logger.Info(context.Background(), "experience stopped",
		logger.String("phase", e.phase.String()),
		logger.Duration("at", e.timeline.Now()),
	)
}

// Restart runs the experience again from intro with the configured
// variants and an empty coherence session, as a fresh landing visit.
func (e *Experience) Restart(ctx context.Context) error {
	e.Stop()

	e.mu.Lock()
	e.signal = e.initialSignal
	e.coherenceVariant = e.initialCoherence
	e.sim.Reset()
	e.restarts++
	e.mu.Unlock()

	metrics.RecordSequenceRestart()
	return e.Start(ctx)
}

// Advance moves logical time forward by d, running everything that falls due.
func (e *Experience) Advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timeline.Advance(d)
	metrics.UpdatePendingTimers(e.timeline.Pending())
}

// Scheduler exposes the timeline to renderers driven by the same goroutine
// that calls Advance. Timers must be started and stopped through Do.
func (e *Experience) Scheduler() clock.Scheduler { return e.timeline }

// Do runs fn under the experience lock, so renderers sharing the timeline
// can schedule while Snapshot is read elsewhere.
func (e *Experience) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Seed returns the seed behind every random source.
func (e *Experience) Seed() int64 { return e.seed }

// SwitchSignal changes the signal variant and restarts the sequence from
// intro. It reports whether anything changed: the switcher is only shown
// during the signal phases.
func (e *Experience) SwitchSignal(v model.SignalVariant) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || !e.phase.ShowsSignalSwitcher() || v == e.signal {
		return false
	}
	e.signal = v
	e.restarts++
	metrics.RecordVariantSwitch("signal", string(v))
	metrics.RecordSequenceRestart()
	e.logger.Info(context.Background(), "signal variant switched",
		logger.String("variant", string(v)),
		logger.Int("restarts", e.restarts),
	)
	e.restartSequence()
	return true
}

// SwitchCoherence changes the coherence visualization and starts a fresh
// coherence session. Only allowed during coherence.
func (e *Experience) SwitchCoherence(v model.CoherenceVariant) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != model.PhaseCoherence || v == e.coherenceVariant {
		return false
	}
	e.coherenceVariant = v
	e.sim.Start()
	metrics.RecordVariantSwitch("coherence", string(v))
	metrics.UpdateSignatureCount(0)
	e.logger.Info(context.Background(), "coherence variant switched", logger.String("variant", string(v)))
	return true
}

// EnterCoherence leaves reveal for the coherence map. It reports false,
// doing nothing, in any other phase.
func (e *Experience) EnterCoherence() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return false
	}
	return e.seq.EnterCoherence()
}

// Sign adds the user's signature. It reports false outside coherence and
// after the first call of a session.
func (e *Experience) Sign() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != model.PhaseCoherence {
		return false
	}
	return e.sim.Sign()
}

// restartSequence resets every phase-driven value and starts the sequencer.
// The caller holds the lock.
func (e *Experience) restartSequence() {
	e.group.CancelAll()
	e.pulse = false
	e.sim.Stop()
	e.explode.Snap()
	e.sequenceStart = e.timeline.Now()
	e.seq.Start()
}

func (e *Experience) setPhase(p model.Phase) {
	prev := e.phase
	e.phase = p
	e.ramp.SetPhase(p)
	e.explode.SetPhase(p)

	switch p {
	case model.PhaseCoherence:
		e.sim.Start()
		metrics.UpdateSignatureCount(0)
	case model.PhaseFinal:
		e.sim.Stop()
	}

	metrics.RecordPhaseTransition(p.String())
	e.logger.Debug(context.Background(), "experience phase",
		logger.String("from", prev.String()),
		logger.String("to", p.String()),
	)
	if e.onPhaseChange != nil {
		e.onPhaseChange(p)
	}
}

func (e *Experience) beginPulse() {
	e.pulse = true
	metrics.RecordBreakthrough()
	e.group.After(PulseDuration, func() { e.pulse = false })
}

func (e *Experience) signatureAdded(sig model.Signature, _ float64) {
	metrics.RecordSignature(sig.Kind())
	metrics.UpdateSignatureCount(len(e.sim.Signatures()))
}

func (e *Experience) stabilized() {
	metrics.RecordStabilized()
	e.logger.Info(context.Background(), "signal stabilized",
		logger.Int("signatures", len(e.sim.Signatures())),
		logger.Float64("stability", e.sim.Stability()),
	)
	e.seq.Stabilized()
}
