package sequence

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCues is returned by Cues.Validate.
var ErrInvalidCues = errors.New("invalid cues")

// Cues are offsets from sequence start.
type Cues struct {
	Breakthrough     time.Duration // breakthrough pulse begins
	BreakthroughHold time.Duration // pulse stays visible this long
	Transition       time.Duration
	Chaos            time.Duration
	Explode          time.Duration
	Reveal           time.Duration
}

// DefaultCues returns the landing page timeline.
func DefaultCues() Cues {
	return Cues{
		Breakthrough:     1300 * time.Millisecond,
		BreakthroughHold: 2000 * time.Millisecond,
		Transition:       5500 * time.Millisecond,
		Chaos:            11500 * time.Millisecond,
		Explode:          15500 * time.Millisecond,
		Reveal:           18500 * time.Millisecond,
	}
}

// Validate checks that the phase cues are strictly increasing.
func (c Cues) Validate() error {
	if c.Breakthrough < 0 || c.BreakthroughHold < 0 {
		return fmt.Errorf("%w: breakthrough offsets must not be negative", ErrInvalidCues)
	}
	if c.Transition <= 0 || c.Chaos <= c.Transition || c.Explode <= c.Chaos || c.Reveal <= c.Explode {
		return fmt.Errorf("%w: phase cues must be strictly increasing", ErrInvalidCues)
	}
	return nil
}
