// Package clock provides the deterministic scheduler every timed behavior of
// the experience runs on. Time only moves when a Timeline is advanced, so a
// frame loop, a test or a headless rehearsal all observe the same ordering.
package clock

import "time"

// Handle identifies a scheduled task.
type Handle interface {
	// Cancel removes the task. Cancelling a fired or cancelled task is a no-op.
	Cancel()
}

// Scheduler schedules one-shot and recurring tasks on a logical clock.
type Scheduler interface {
	// Now returns the logical time elapsed since the scheduler was created.
	Now() time.Duration
	// After runs fn once, d after Now. A zero delay runs on the next advance.
	After(d time.Duration, fn func()) Handle
	// Every runs fn each period, starting one period after Now.
	Every(period time.Duration, fn func()) Handle
	// Pending reports how many tasks are still scheduled.
	Pending() int
}

// MinPeriod is the smallest recurring period accepted by Every.
const MinPeriod = time.Millisecond

type noopHandle struct{}

func (noopHandle) Cancel() {}

// Noop is a Handle that cancels nothing.
var Noop Handle = noopHandle{} //nolint:gochecknoglobals // stateless sentinel
