package coherence

import (
	"fmt"
	"math"
)

// Status is the one-line description shown under the coherence field.
func (s *Simulator) Status() string {
	switch {
	case !s.Signed():
		return "The signal awaits your resonance"
	case s.stabilized:
		return "Coherence achieved. The signal is stable."
	}

	n := len(s.signatures)
	noun := "resonances"
	if n == 1 {
		noun = "resonance"
	}
	return fmt.Sprintf("%d %s detected...%s", n, noun, band(s.stability))
}

// Percent is stability rounded to a whole percentage.
func (s *Simulator) Percent() int {
	return int(math.Round(s.stability * 100))
}

func band(stability float64) string {
	switch {
	case stability < 0.3:
		return " Signal unstable"
	case stability < 0.6:
		return " Patterns emerging"
	case stability < 0.9:
		return " Coherence forming"
	default:
		return " Almost synchronized"
	}
}
