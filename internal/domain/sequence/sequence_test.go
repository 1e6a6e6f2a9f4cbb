package sequence_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/internal/domain/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

const ms = time.Millisecond

func TestSequenceTimeline(t *testing.T) {
	Convey("Given a started sequencer", t, func() {
		tl := clock.NewTimeline()
		var visited []model.Phase
		seq := sequence.New(tl, sequence.WithOnPhaseChange(func(p model.Phase) {
			visited = append(visited, p)
		}))
		seq.Start()

		Convey("Then it starts in intro and emits it", func() {
			So(seq.Phase(), ShouldEqual, model.PhaseIntro)
			So(seq.Active(), ShouldBeTrue)
			So(visited, ShouldResemble, []model.Phase{model.PhaseIntro})
		})

		Convey("When left alone for the whole timeline", func() {
			for range 2000 {
				tl.Advance(16 * ms)
			}

			Convey("Then it visits every timed phase once in order and stops at reveal", func() {
				So(visited, ShouldResemble, []model.Phase{
					model.PhaseIntro, model.PhaseTransition, model.PhaseChaos,
					model.PhaseExplode, model.PhaseReveal,
				})
				So(seq.Phase(), ShouldEqual, model.PhaseReveal)
				So(seq.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When probing either side of each cue", func() {
			type probe struct {
				at   time.Duration
				want model.Phase
			}
			probes := []probe{
				{5499 * ms, model.PhaseIntro},
				{5500 * ms, model.PhaseTransition},
				{11499 * ms, model.PhaseTransition},
				{11500 * ms, model.PhaseChaos},
				{15499 * ms, model.PhaseChaos},
				{15500 * ms, model.PhaseExplode},
				{18499 * ms, model.PhaseExplode},
				{18500 * ms, model.PhaseReveal},
			}

			Convey("Then the phase at T+x follows the offsets", func() {
				for _, p := range probes {
					tl.AdvanceTo(p.at)
					So(seq.Phase(), ShouldEqual, p.want)
				}
			})
		})

		Convey("When the explosion runs", func() {
			tl.AdvanceTo(15500 * ms)
			exploding := seq.Exploding()
			tl.AdvanceTo(18500 * ms)

			Convey("Then the explosion fade is visible only during explode", func() {
				So(exploding, ShouldBeTrue)
				So(seq.Exploding(), ShouldBeFalse)
			})
		})
	})
}

func TestSequenceBreakthrough(t *testing.T) {
	Convey("Given a sequencer with breakthrough listeners", t, func() {
		tl := clock.NewTimeline()
		var events []string
		seq := sequence.New(tl,
			sequence.WithOnBreakthrough(func() { events = append(events, "start") }),
			sequence.WithOnBreakthroughEnd(func() { events = append(events, "end") }),
		)
		seq.Start()

		Convey("When time passes the pulse", func() {
			tl.AdvanceTo(1299 * ms)
			before := seq.Breakthrough()
			tl.AdvanceTo(1300 * ms)
			during := seq.Breakthrough()
			tl.AdvanceTo(3300 * ms)

			Convey("Then the pulse shows for two seconds without changing phase", func() {
				So(before, ShouldBeFalse)
				So(during, ShouldBeTrue)
				So(seq.Breakthrough(), ShouldBeFalse)
				So(events, ShouldResemble, []string{"start", "end"})
				So(seq.Phase(), ShouldEqual, model.PhaseIntro)
			})
		})
	})
}

func TestSequenceCoherence(t *testing.T) {
	Convey("Given a sequencer", t, func() {
		tl := clock.NewTimeline()
		var visited []model.Phase
		seq := sequence.New(tl, sequence.WithOnPhaseChange(func(p model.Phase) {
			visited = append(visited, p)
		}))
		seq.Start()

		Convey("When entering coherence before reveal", func() {
			tl.AdvanceTo(12 * time.Second)
			ok := seq.EnterCoherence()

			Convey("Then it is a no-op", func() {
				So(ok, ShouldBeFalse)
				So(seq.Phase(), ShouldEqual, model.PhaseChaos)
			})
		})

		Convey("When entering coherence in reveal twice", func() {
			tl.AdvanceTo(19 * time.Second)
			first := seq.EnterCoherence()
			second := seq.EnterCoherence()

			Convey("Then the transition happens exactly once", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(seq.Phase(), ShouldEqual, model.PhaseCoherence)
				So(visited[len(visited)-1], ShouldEqual, model.PhaseCoherence)
				So(seq.Active(), ShouldBeFalse)
			})

			Convey("Then stabilized moves on to final", func() {
				seq.Stabilized()
				So(seq.Phase(), ShouldEqual, model.PhaseFinal)
				seq.Stabilized()
				So(seq.Phase(), ShouldEqual, model.PhaseFinal)
			})
		})

		Convey("When stabilized arrives outside coherence", func() {
			seq.Stabilized()

			Convey("Then nothing happens", func() {
				So(seq.Phase(), ShouldEqual, model.PhaseIntro)
			})
		})
	})
}

func TestSequenceLifecycle(t *testing.T) {
	Convey("Given a sequencer part way through", t, func() {
		tl := clock.NewTimeline()
		var visited []model.Phase
		seq := sequence.New(tl, sequence.WithOnPhaseChange(func(p model.Phase) {
			visited = append(visited, p)
		}))
		seq.Start()
		tl.AdvanceTo(6 * time.Second)

		Convey("When it is stopped", func() {
			seq.Stop()
			tl.Advance(time.Minute)

			Convey("Then no further phase changes happen", func() {
				So(seq.Phase(), ShouldEqual, model.PhaseTransition)
				So(seq.Pending(), ShouldEqual, 0)
				So(tl.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When it is restarted", func() {
			seq.Start()
			tl.Advance(5 * time.Second)

			Convey("Then the timeline runs relative to the restart", func() {
				So(seq.Phase(), ShouldEqual, model.PhaseIntro)
				tl.Advance(500 * ms)
				So(seq.Phase(), ShouldEqual, model.PhaseTransition)
				So(visited, ShouldResemble, []model.Phase{
					model.PhaseIntro, model.PhaseTransition, model.PhaseIntro, model.PhaseTransition,
				})
			})
		})

		Convey("When it is reset", func() {
			seq.Reset()

			Convey("Then it is back in intro with nothing scheduled", func() {
				So(seq.Phase(), ShouldEqual, model.PhaseIntro)
				So(seq.Active(), ShouldBeFalse)
				So(seq.Pending(), ShouldEqual, 0)
			})
		})
	})
}

func TestCues(t *testing.T) {
	Convey("Given custom cues", t, func() {
		Convey("When they are strictly increasing", func() {
			tl := clock.NewTimeline()
			c := sequence.Cues{Breakthrough: 100 * ms, BreakthroughHold: 100 * ms, Transition: time.Second,
				Chaos: 2 * time.Second, Explode: 3 * time.Second, Reveal: 4 * time.Second}
			seq := sequence.New(tl, sequence.WithCues(c))
			seq.Start()
			tl.Advance(4 * time.Second)

			Convey("Then they drive the sequence", func() {
				So(c.Validate(), ShouldBeNil)
				So(seq.Phase(), ShouldEqual, model.PhaseReveal)
			})
		})

		Convey("When they are out of order", func() {
			c := sequence.DefaultCues()
			c.Explode = c.Chaos

			Convey("Then validation fails and the defaults are kept", func() {
				So(errors.Is(c.Validate(), sequence.ErrInvalidCues), ShouldBeTrue)
				tl := clock.NewTimeline()
				seq := sequence.New(tl, sequence.WithCues(c))
				seq.Start()
				tl.Advance(15500 * ms)
				So(seq.Phase(), ShouldEqual, model.PhaseExplode)
			})
		})
	})
}
