// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Phase is one screen of the landing experience.
type Phase int

// Phases in visiting order.
const (
	PhaseIntro Phase = iota
	PhaseTransition
	PhaseChaos
	PhaseExplode
	PhaseReveal
	PhaseCoherence
	PhaseFinal
)

var phaseNames = [...]string{ //nolint:gochecknoglobals // lookup table
	PhaseIntro:      "intro",
	PhaseTransition: "transition",
	PhaseChaos:      "chaos",
	PhaseExplode:    "explode",
	PhaseReveal:     "reveal",
	PhaseCoherence:  "coherence",
	PhaseFinal:      "final",
}

// Background signal intensity per phase.
var phaseIntensity = [...]float64{ //nolint:gochecknoglobals // lookup table
	PhaseIntro:      0.35,
	PhaseTransition: 0.35,
	PhaseChaos:      1,
	PhaseExplode:    1,
	PhaseReveal:     0,
	PhaseCoherence:  0,
	PhaseFinal:      0,
}

// Phases returns every phase in visiting order.
func Phases() []Phase {
	return []Phase{PhaseIntro, PhaseTransition, PhaseChaos, PhaseExplode, PhaseReveal, PhaseCoherence, PhaseFinal}
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase parses a phase name, case-insensitively.
func ParsePhase(s string) (Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return PhaseIntro, fmt.Errorf("%w: phase %q", ErrUnknown, s)
}

// Intensity is the background signal opacity for the phase.
func (p Phase) Intensity() float64 {
	if p < 0 || int(p) >= len(phaseIntensity) {
		return 0
	}
	return phaseIntensity[p]
}

// ShowsSignalSwitcher reports whether the signal variant can be changed.
func (p Phase) ShowsSignalSwitcher() bool {
	return p >= PhaseIntro && p <= PhaseExplode
}

// MountsSequence reports whether the timed sequence is running in this phase.
func (p Phase) MountsSequence() bool {
	return p >= PhaseIntro && p <= PhaseReveal
}

// IsVoid reports whether the phase renders on the plain void background.
func (p Phase) IsVoid() bool {
	return p >= PhaseReveal
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
