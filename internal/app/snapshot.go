package app

import (
	"time"

	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/internal/domain/signal"
)

// Snapshot is a consistent copy of the experience state.
type Snapshot struct {
	Started          bool                   `json:"started"`
	Phase            model.Phase            `json:"phase"`
	SignalVariant    model.SignalVariant    `json:"signal_variant"`
	CoherenceVariant model.CoherenceVariant `json:"coherence_variant"`

	BaseIntensity float64 `json:"base_intensity"`
	Intensity     float64 `json:"intensity"`
	Pulse         bool    `json:"pulse"`
	Breakthrough  bool    `json:"breakthrough"`
	Exploding     bool    `json:"exploding"`
	Chaos         float64 `json:"chaos"`
	ExplodeScale  float64 `json:"explode_scale"`

	Signatures []model.Signature `json:"signatures"`
	Signed     bool              `json:"signed"`
	Stability  float64           `json:"stability"`
	Percent    int               `json:"percent"`
	Status     string            `json:"status"`
	Stabilized bool              `json:"stabilized"`

	Now             time.Duration `json:"now"`
	SequenceElapsed time.Duration `json:"sequence_elapsed"`
	Restarts        int           `json:"restarts"`
	PendingTimers   int           `json:"pending_timers"`
	Seed            int64         `json:"seed"`
}

// Snapshot returns the current state. Safe for concurrent use.
func (e *Experience) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	base := e.phase.Intensity()
	return Snapshot{
		Started:          e.started,
		Phase:            e.phase,
		SignalVariant:    e.signal,
		CoherenceVariant: e.coherenceVariant,
		BaseIntensity:    base,
		Intensity:        EffectiveIntensity(base, e.pulse),
		Pulse:            e.pulse,
		Breakthrough:     e.seq.Breakthrough(),
		Exploding:        e.seq.Exploding(),
		Chaos:            e.ramp.Level(),
		ExplodeScale:     e.explode.Scale(),
		Signatures:       e.sim.Signatures(),
		Signed:           e.sim.Signed(),
		Stability:        e.sim.Stability(),
		Percent:          e.sim.Percent(),
		Status:           e.sim.Status(),
		Stabilized:       e.sim.IsStabilized(),
		Now:              e.timeline.Now(),
		SequenceElapsed:  e.timeline.Now() - e.sequenceStart,
		Restarts:         e.restarts,
		PendingTimers:    e.timeline.Pending(),
		Seed:             e.seed,
	}
}

// SignalFrame is what the signal renderer draws for this snapshot.
func (s Snapshot) SignalFrame() signal.Frame {
	return signal.Frame{
		Variant:   s.SignalVariant,
		Intensity: s.Intensity,
		Chaos:     s.Chaos,
		Scale:     s.ExplodeScale,
	}
}
