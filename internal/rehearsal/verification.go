package rehearsal

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/fracture/internal/config"
	"github.com/okian/fracture/internal/domain/model"
)

// verify checks a completed run against the configured timeline.
func verify(cfg Config, r *Report) error {
	var problems []string

	if got, want := r.Phases(), model.Phases(); !slices.Equal(got, want) {
		problems = append(problems, fmt.Sprintf("phase order %v, want %v", got, want))
	}

	cues := cueTimes(cfg.Experience)
	for _, m := range r.Marks {
		if want, ok := cues[m.Phase]; ok && m.At != want {
			problems = append(problems, fmt.Sprintf("%s at %s, want %s", m.Phase, m.At, want))
		}
	}

	if r.UserSignatures != 1 {
		problems = append(problems, fmt.Sprintf("%d user signatures, want 1", r.UserSignatures))
	}
	if !r.DoubleSignRefused {
		problems = append(problems, "second signature was accepted")
	}
	if r.Stability < cfg.Experience.StabilizedThreshold {
		problems = append(problems, fmt.Sprintf("stability %.3f below threshold %.3f",
			r.Stability, cfg.Experience.StabilizedThreshold))
	}
	if r.PendingAfterStop != 0 {
		problems = append(problems, fmt.Sprintf("%d timers pending after stop", r.PendingAfterStop))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrVerification, strings.Join(problems, "; "))
	}
	return nil
}

// cueTimes maps each timed phase to when it must begin.
func cueTimes(c *config.Config) map[model.Phase]time.Duration {
	return map[model.Phase]time.Duration{
		model.PhaseIntro:      0,
		model.PhaseTransition: config.Ms(c.TransitionMS),
		model.PhaseChaos:      config.Ms(c.ChaosMS),
		model.PhaseExplode:    config.Ms(c.ExplodeMS),
		model.PhaseReveal:     config.Ms(c.RevealMS),
	}
}
