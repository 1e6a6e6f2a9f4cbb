package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned when a name does not match any known value.
var ErrUnknown = errors.New("unknown value")

// SignalVariant selects the look of the fractured signal.
type SignalVariant string

// Signal variants.
const (
	SignalBurst   SignalVariant = "burst"
	SignalCrystal SignalVariant = "crystal"
	SignalSynapse SignalVariant = "synapse"
)

// SignalVariants returns the variants in switcher order.
func SignalVariants() []SignalVariant {
	return []SignalVariant{SignalBurst, SignalCrystal, SignalSynapse}
}

// Label is the switcher caption.
func (v SignalVariant) Label() string {
	switch v {
	case SignalBurst:
		return "SIGNAL I"
	case SignalCrystal:
		return "SIGNAL II"
	case SignalSynapse:
		return "SIGNAL III"
	default:
		return strings.ToUpper(string(v))
	}
}

// ParseSignalVariant parses a signal variant name.
func ParseSignalVariant(s string) (SignalVariant, error) {
	v := SignalVariant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SignalVariants() {
		if v == known {
			return v, nil
		}
	}
	return SignalBurst, fmt.Errorf("%w: signal variant %q", ErrUnknown, s)
}

// CoherenceVariant selects the coherence visualization.
type CoherenceVariant string

// Coherence variants.
const (
	CoherenceGeometry CoherenceVariant = "geometry"
	CoherenceNeural   CoherenceVariant = "neural"
	CoherenceWaveform CoherenceVariant = "waveform"
	CoherenceEnergy   CoherenceVariant = "energy"
)

// CoherenceVariants returns the variants in cycle order.
func CoherenceVariants() []CoherenceVariant {
	return []CoherenceVariant{CoherenceGeometry, CoherenceNeural, CoherenceWaveform, CoherenceEnergy}
}

// Label is the switcher caption.
func (v CoherenceVariant) Label() string {
	switch v {
	case CoherenceGeometry:
		return "Sacred Geometry"
	case CoherenceNeural:
		return "Neural Network"
	case CoherenceWaveform:
		return "Waveform"
	case CoherenceEnergy:
		return "Energy Field"
	default:
		return string(v)
	}
}

// Next returns the following variant, wrapping around.
func (v CoherenceVariant) Next() CoherenceVariant {
	all := CoherenceVariants()
	for i, c := range all {
		if c == v {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// ParseCoherenceVariant parses a coherence variant name.
func ParseCoherenceVariant(s string) (CoherenceVariant, error) {
	v := CoherenceVariant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CoherenceVariants() {
		if v == known {
			return v, nil
		}
	}
	return CoherenceGeometry, fmt.Errorf("%w: coherence variant %q", ErrUnknown, s)
}
