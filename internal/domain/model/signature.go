package model

import "time"

// UserSignatureID identifies the signature added by the person at the keyboard.
const UserSignatureID = "user-signature"

// Signature is one participant contributing to coherence. X and Y are
// normalized to [0,1] across the visualization.
type Signature struct {
	ID        string        `json:"id"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Timestamp time.Duration `json:"timestamp"` // logical time the signature arrived
	IsUser    bool          `json:"is_user"`
}

// Kind labels the signature for metrics and logs.
func (s Signature) Kind() string {
	if s.IsUser {
		return "user"
	}
	return "simulated"
}
