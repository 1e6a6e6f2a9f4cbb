package clock

import (
	"container/heap"
	"time"
)

// Timeline is a single-threaded Scheduler whose clock moves only on Advance.
// Due tasks run ordered by due time, then by scheduling order.
type Timeline struct {
	now       time.Duration
	seq       uint64
	tasks     taskQueue
	advancing bool
}

// NewTimeline creates a timeline at logical time zero.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Now returns the logical time.
func (t *Timeline) Now() time.Duration { return t.now }

// Pending returns the number of scheduled tasks.
func (t *Timeline) Pending() int { return len(t.tasks) }

// After schedules fn to run once at Now()+d. Negative delays are treated as zero.
func (t *Timeline) After(d time.Duration, fn func()) Handle {
	if fn == nil {
		return Noop
	}
	if d < 0 {
		d = 0
	}
	return t.push(&task{due: t.now + d, fn: fn, tl: t})
}

// Every schedules fn every period, first at Now()+period.
func (t *Timeline) Every(period time.Duration, fn func()) Handle {
	if fn == nil {
		return Noop
	}
	if period < MinPeriod {
		period = MinPeriod
	}
	return t.push(&task{due: t.now + period, period: period, fn: fn, tl: t})
}

// Advance moves the clock forward by d, running every task that falls due.
// Tasks scheduled while advancing run in the same call when they are due
// before the target. Calls made from inside a running task are ignored.
func (t *Timeline) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.AdvanceTo(t.now + d)
}

// AdvanceTo moves the clock to target. A target in the past only flushes
// tasks that are already due.
func (t *Timeline) AdvanceTo(target time.Duration) {
	if t.advancing {
		return
	}
	t.advancing = true
	defer func() { t.advancing = false }()

	if target < t.now {
		target = t.now
	}
	for len(t.tasks) > 0 {
		next := t.tasks[0]
		if next.due > target {
			break
		}
		heap.Pop(&t.tasks)
		t.now = next.due
		if next.period > 0 {
			next.due += next.period
			t.seq++
			next.seq = t.seq
			heap.Push(&t.tasks, next)
		} else {
			next.done = true
		}
		next.fn()
	}
	t.now = target
}

func (t *Timeline) push(tk *task) Handle {
	t.seq++
	tk.seq = t.seq
	heap.Push(&t.tasks, tk)
	return tk
}

type task struct {
	due    time.Duration
	seq    uint64
	period time.Duration
	fn     func()
	index  int
	done   bool
	tl     *Timeline
}

// Cancel removes the task from its timeline.
func (tk *task) Cancel() {
	if tk.done {
		return
	}
	tk.done = true
	if tk.index >= 0 && tk.index < len(tk.tl.tasks) && tk.tl.tasks[tk.index] == tk {
		heap.Remove(&tk.tl.tasks, tk.index)
	}
}

// taskQueue is a min-heap on (due, seq).
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	tk := x.(*task) //nolint:forcetypeassert // only *task is pushed
	tk.index = len(*q)
	*q = append(*q, tk)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	tk := old[n-1]
	old[n-1] = nil
	tk.index = -1
	*q = old[:n-1]
	return tk
}
