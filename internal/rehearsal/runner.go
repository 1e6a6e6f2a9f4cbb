package rehearsal

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/fracture/internal/app"
	"github.com/okian/fracture/internal/config"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/pkg/logger"
)

type runner struct {
	cfg    Config
	exp    *app.Experience
	report *Report
	log    logger.Logger
}

// Run executes the scripted journey. The report is returned even when the
// run fails past construction, so callers can print what happened.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Experience == nil {
		cfg.Experience = config.New(ctx)
	}
	if err := cfg.Experience.Validate(); err != nil {
		return nil, err
	}
	if cfg.SignaturesTimeout <= 0 {
		cfg.SignaturesTimeout = DefaultSignaturesTimeout
	}
	if cfg.Step <= 0 {
		cfg.Step = cfg.Experience.FrameInterval()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	r := &runner{cfg: cfg, report: &Report{}, log: cfg.Logger}
	exp, err := app.New(cfg.Experience,
		app.WithLogger(cfg.Logger),
		app.WithOnPhaseChange(r.mark),
	)
	if err != nil {
		return nil, fmt.Errorf("build experience: %w", err)
	}
	r.exp = exp

	start := time.Now()
	err = r.run(ctx)
	r.report.Wall = time.Since(start)
	if err != nil {
		return r.report, err
	}

	if err := verify(cfg, r.report); err != nil {
		return r.report, err
	}
	r.log.Info(ctx, "rehearsal completed",
		logger.Int("frames", r.report.Frames),
		logger.Duration("simulated", r.report.Simulated),
		logger.Duration("wall", r.report.Wall),
	)
	return r.report, nil
}

func (r *runner) run(ctx context.Context) error {
	defer r.finish()

	if err := r.exp.Start(ctx); err != nil {
		return fmt.Errorf("start experience: %w", err)
	}
	r.log.Info(ctx, "starting rehearsal",
		logger.Any("seed", r.exp.Seed()),
		logger.Duration("step", r.cfg.Step),
		logger.Duration("signaturesTimeout", r.cfg.SignaturesTimeout),
	)

	// Step 1: let the timed sequence play out
	revealBy := config.Ms(r.cfg.Experience.RevealMS) + revealSlack
	if err := r.stepUntil(ctx, model.PhaseReveal, revealBy); err != nil {
		return err
	}

	// Step 2: enter the coherence map
	if !r.exp.EnterCoherence() {
		return fmt.Errorf("%w: enter coherence refused in reveal", ErrVerification)
	}

	// Step 3: sign, then check a second signature is refused
	if !r.exp.Sign() {
		return fmt.Errorf("%w: sign refused in coherence", ErrVerification)
	}
	r.report.SignedAt = r.exp.Snapshot().SequenceElapsed
	r.report.DoubleSignRefused = !r.exp.Sign()
	r.log.Debug(ctx, "signed", logger.Duration("at", r.report.SignedAt))

	// Step 4: wait for the signal to stabilize
	return r.stepUntil(ctx, model.PhaseFinal, r.cfg.SignaturesTimeout)
}

// stepUntil advances one step at a time until phase is reached or limit of
// simulated time has passed.
func (r *runner) stepUntil(ctx context.Context, phase model.Phase, limit time.Duration) error {
	for spent := time.Duration(0); ; spent += r.cfg.Step {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("rehearsal cancelled: %w", err)
		}
		if r.exp.Snapshot().Phase == phase {
			return nil
		}
		if spent >= limit {
			return fmt.Errorf("%w: %s not reached within %s", ErrTimeout, phase, limit)
		}
		r.exp.Advance(r.cfg.Step)
		r.report.Frames++
	}
}

// finish records the final state and stops the experience.
func (r *runner) finish() {
	s := r.exp.Snapshot()
	r.report.Seed = s.Seed
	r.report.Signal = s.SignalVariant
	r.report.Coherence = s.CoherenceVariant
	r.report.Signatures = s.Signatures
	r.report.Stability = s.Stability
	r.report.Percent = s.Percent
	r.report.Status = s.Status
	r.report.Simulated = s.Now
	for _, sig := range s.Signatures {
		if sig.IsUser {
			r.report.UserSignatures++
		}
	}

	r.exp.Stop()
	r.report.PendingAfterStop = r.exp.Snapshot().PendingTimers
}

// mark runs under the experience lock, so it reads the scheduler directly.
func (r *runner) mark(p model.Phase) {
	at := r.exp.Scheduler().Now()
	r.report.Marks = append(r.report.Marks, Mark{Phase: p, At: at})
	r.log.Debug(context.Background(), "phase reached",
		logger.String("phase", p.String()),
		logger.Duration("at", at),
	)
}
