package clock_test

import (
	"testing"
	"time"

	"github.com/okian/fracture/internal/clock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimelineAfter(t *testing.T) {
	Convey("Given a fresh timeline", t, func() {
		tl := clock.NewTimeline()
		var fired []string

		Convey("When one-shot tasks are scheduled out of order", func() {
			tl.After(300*time.Millisecond, func() { fired = append(fired, "c") })
			tl.After(100*time.Millisecond, func() { fired = append(fired, "a") })
			tl.After(100*time.Millisecond, func() { fired = append(fired, "b") })

			Convey("Then nothing runs before time moves", func() {
				So(fired, ShouldBeEmpty)
				So(tl.Pending(), ShouldEqual, 3)
			})

			Convey("Then advancing runs due tasks by time then insertion order", func() {
				tl.Advance(150 * time.Millisecond)
				So(fired, ShouldResemble, []string{"a", "b"})
				So(tl.Now(), ShouldEqual, 150*time.Millisecond)

				tl.Advance(150 * time.Millisecond)
				So(fired, ShouldResemble, []string{"a", "b", "c"})
				So(tl.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When a zero-delay task is scheduled outside an advance", func() {
			tl.After(0, func() { fired = append(fired, "now") })

			Convey("Then it runs on the next advance only", func() {
				So(fired, ShouldBeEmpty)
				tl.Advance(0)
				So(fired, ShouldResemble, []string{"now"})
			})
		})

		Convey("When a task schedules a follow-up due inside the same frame", func() {
			tl.After(10*time.Millisecond, func() {
				fired = append(fired, "first")
				tl.After(0, func() { fired = append(fired, "follow-up") })
				tl.After(50*time.Millisecond, func() { fired = append(fired, "later") })
			})
			tl.Advance(16 * time.Millisecond)

			Convey("Then the follow-up runs before the advance returns", func() {
				So(fired, ShouldResemble, []string{"first", "follow-up"})
				So(tl.Pending(), ShouldEqual, 1)
			})
		})

		Convey("When a task observes Now", func() {
			var seen time.Duration
			tl.After(40*time.Millisecond, func() { seen = tl.Now() })
			tl.Advance(time.Second)

			Convey("Then it sees its own due time", func() {
				So(seen, ShouldEqual, 40*time.Millisecond)
				So(tl.Now(), ShouldEqual, time.Second)
			})
		})

		Convey("When a nil function is scheduled", func() {
			h := tl.After(time.Second, nil)

			Convey("Then nothing is pending and cancel is safe", func() {
				So(tl.Pending(), ShouldEqual, 0)
				So(h.Cancel, ShouldNotPanic)
			})
		})
	})
}

func TestTimelineEvery(t *testing.T) {
	Convey("Given a recurring task", t, func() {
		tl := clock.NewTimeline()
		count := 0
		h := tl.Every(100*time.Millisecond, func() { count++ })

		Convey("When time advances in one large step", func() {
			tl.Advance(1050 * time.Millisecond)

			Convey("Then it fires once per elapsed period", func() {
				So(count, ShouldEqual, 10)
				So(tl.Pending(), ShouldEqual, 1)
			})
		})

		Convey("When it is cancelled", func() {
			tl.Advance(250 * time.Millisecond)
			h.Cancel()
			h.Cancel()
			tl.Advance(time.Second)

			Convey("Then it never fires again", func() {
				So(count, ShouldEqual, 2)
				So(tl.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When it cancels itself from inside its callback", func() {
			var self clock.Handle
			n := 0
			self = tl.Every(10*time.Millisecond, func() {
				n++
				if n == 3 {
					self.Cancel()
				}
			})
			tl.Advance(time.Second)

			Convey("Then the third run is the last", func() {
				So(n, ShouldEqual, 3)
			})
		})

		Convey("When the period is below the minimum", func() {
			m := 0
			tl.Every(0, func() { m++ })
			tl.Advance(5 * clock.MinPeriod)

			Convey("Then it is clamped to the minimum", func() {
				So(m, ShouldEqual, 5)
			})
		})
	})
}

func TestTimelineCancel(t *testing.T) {
	Convey("Given a scheduled one-shot", t, func() {
		tl := clock.NewTimeline()
		fired := false
		h := tl.After(time.Second, func() { fired = true })

		Convey("When it is cancelled before it fires", func() {
			h.Cancel()
			tl.Advance(2 * time.Second)

			Convey("Then it does not run", func() {
				So(fired, ShouldBeFalse)
				So(tl.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When it is cancelled after it fired", func() {
			tl.Advance(2 * time.Second)

			Convey("Then cancel is a no-op", func() {
				So(fired, ShouldBeTrue)
				So(h.Cancel, ShouldNotPanic)
			})
		})

		Convey("When a running task cancels a later task due in the same frame", func() {
			laterFired := false
			later := tl.After(1500*time.Millisecond, func() { laterFired = true })
			tl.After(500*time.Millisecond, func() { later.Cancel() })
			tl.Advance(3 * time.Second)

			Convey("Then the later task never runs", func() {
				So(laterFired, ShouldBeFalse)
				So(fired, ShouldBeTrue)
			})
		})
	})
}

func TestTimelineAdvanceTo(t *testing.T) {
	Convey("Given a timeline at 1s", t, func() {
		tl := clock.NewTimeline()
		tl.Advance(time.Second)

		Convey("When advancing to a past time", func() {
			tl.AdvanceTo(500 * time.Millisecond)

			Convey("Then the clock does not move backwards", func() {
				So(tl.Now(), ShouldEqual, time.Second)
			})
		})

		Convey("When a task tries to advance from inside a callback", func() {
			tl.After(0, func() { tl.Advance(time.Hour) })
			tl.Advance(0)

			Convey("Then the nested advance is ignored", func() {
				So(tl.Now(), ShouldEqual, time.Second)
			})
		})
	})
}
