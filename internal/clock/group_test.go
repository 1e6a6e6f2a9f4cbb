package clock_test

import (
	"testing"
	"time"

	"github.com/okian/fracture/internal/clock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGroup(t *testing.T) {
	Convey("Given two groups on one timeline", t, func() {
		tl := clock.NewTimeline()
		a := clock.NewGroup(tl)
		b := clock.NewGroup(tl)
		var fired []string

		a.After(time.Second, func() { fired = append(fired, "a1") })
		a.Every(300*time.Millisecond, func() { fired = append(fired, "a-tick") })
		b.After(time.Second, func() { fired = append(fired, "b1") })

		Convey("Then each group counts its own tasks", func() {
			So(a.Pending(), ShouldEqual, 2)
			So(b.Pending(), ShouldEqual, 1)
			So(tl.Pending(), ShouldEqual, 3)
			So(a.Now(), ShouldEqual, tl.Now())
		})

		Convey("When one group cancels all", func() {
			a.CancelAll()
			tl.Advance(2 * time.Second)

			Convey("Then only the other group's tasks run", func() {
				So(fired, ShouldResemble, []string{"b1"})
				So(a.Pending(), ShouldEqual, 0)
				So(b.Pending(), ShouldEqual, 0)
				So(tl.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When a one-shot fires", func() {
			tl.Advance(time.Second)

			Convey("Then it is no longer pending in its group", func() {
				So(a.Pending(), ShouldEqual, 1)
				So(b.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When a single group handle is cancelled twice", func() {
			h := b.After(time.Minute, func() {})
			h.Cancel()
			h.Cancel()

			Convey("Then the group stays consistent", func() {
				So(b.Pending(), ShouldEqual, 1)
			})
		})

		Convey("When groups are nested", func() {
			inner := clock.NewGroup(a)
			inner.After(time.Second, func() { fired = append(fired, "inner") })
			a.CancelAll()
			tl.Advance(2 * time.Second)

			Convey("Then cancelling the outer group cancels the inner tasks", func() {
				So(fired, ShouldResemble, []string{"b1"})
				So(tl.Pending(), ShouldEqual, 0)
			})
		})
	})
}
