// Package rehearsal runs the landing experience headless on simulated time:
// it waits for reveal, enters coherence, signs, and runs until the signal
// stabilizes, then checks the run and reports its timeline.
package rehearsal

import (
	"time"

	"github.com/okian/fracture/internal/config"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/pkg/logger"
)

// Default rehearsal constants.
const (
	// DefaultSignaturesTimeout bounds the simulated time between signing and
	// the final phase.
	DefaultSignaturesTimeout = 10 * time.Minute

	// revealSlack is added to the reveal cue before giving up on reveal.
	revealSlack = time.Second
)

// Config holds configuration for a rehearsal.
type Config struct {
	Experience        *config.Config // Experience settings; nil uses defaults
	SignaturesTimeout time.Duration  // Simulated time allowed after signing
	Step              time.Duration  // Simulated frame; zero uses the configured FPS
	Verbose           bool           // Include every signature in the report
	Logger            logger.Logger  // Receives progress; nil discards
}

// Mark is one phase change on the simulated timeline.
type Mark struct {
	Phase model.Phase
	At    time.Duration
}

// Report holds what a rehearsal observed.
type Report struct {
	Seed      int64
	Signal    model.SignalVariant
	Coherence model.CoherenceVariant

	Marks             []Mark
	SignedAt          time.Duration
	DoubleSignRefused bool

	Signatures     []model.Signature
	UserSignatures int
	Stability      float64
	Percent        int
	Status         string

	Frames           int
	Simulated        time.Duration
	Wall             time.Duration
	PendingAfterStop int
}

// Phases returns the phases in the order they were entered.
func (r *Report) Phases() []model.Phase {
	out := make([]model.Phase, 0, len(r.Marks))
	for _, m := range r.Marks {
		out = append(out, m.Phase)
	}
	return out
}
