package coherence

import "math"

// Gate is the result of threshold gating one visual element.
type Gate struct {
	Active    bool
	Intensity float64
}

// Activation gates element index of count: it lights up once stability
// passes index/count and brightens k times faster than stability grows.
func Activation(index, count int, stability, k float64) Gate {
	threshold := 0.0
	if count > 0 {
		threshold = float64(index) / float64(count)
	}
	return ActivationAt(threshold, stability, k)
}

// ActivationAt gates an element with a precomputed threshold.
func ActivationAt(threshold, stability, k float64) Gate {
	if stability <= threshold {
		return Gate{}
	}
	return Gate{Active: true, Intensity: math.Min(1, (stability-threshold)*k)}
}
