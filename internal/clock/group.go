package clock

import "time"

// Group is an owner-scoped view of a Scheduler. Everything scheduled through
// a group can be cancelled at once with CancelAll.
type Group struct {
	parent Scheduler
	live   map[*groupHandle]struct{}
}

var _ Scheduler = (*Group)(nil)

// NewGroup creates a group scheduling on parent.
func NewGroup(parent Scheduler) *Group {
	return &Group{parent: parent, live: make(map[*groupHandle]struct{})}
}

// Now returns the parent's logical time.
func (g *Group) Now() time.Duration { return g.parent.Now() }

// Pending returns the number of tasks this group still has scheduled.
func (g *Group) Pending() int { return len(g.live) }

// After schedules a one-shot task owned by the group.
func (g *Group) After(d time.Duration, fn func()) Handle {
	if fn == nil {
		return Noop
	}
	h := &groupHandle{g: g}
	g.live[h] = struct{}{}
	h.inner = g.parent.After(d, func() {
		delete(g.live, h)
		fn()
	})
	return h
}

// Every schedules a recurring task owned by the group.
func (g *Group) Every(period time.Duration, fn func()) Handle {
	if fn == nil {
		return Noop
	}
	h := &groupHandle{g: g}
	g.live[h] = struct{}{}
	h.inner = g.parent.Every(period, fn)
	return h
}

// CancelAll cancels every task the group owns.
func (g *Group) CancelAll() {
	for h := range g.live {
		h.inner.Cancel()
		delete(g.live, h)
	}
}

type groupHandle struct {
	g     *Group
	inner Handle
}

func (h *groupHandle) Cancel() {
	if _, ok := h.g.live[h]; !ok {
		return
	}
	delete(h.g.live, h)
	h.inner.Cancel()
}
