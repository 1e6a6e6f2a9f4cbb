package coherence_test

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/domain/coherence"
	"github.com/okian/fracture/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newSim(tl *clock.Timeline, opts ...coherence.Option) *coherence.Simulator {
	n := 0
	base := []coherence.Option{
		coherence.WithRand(rand.New(rand.NewSource(7))),
		coherence.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sig-%d", n)
		}),
	}
	return coherence.New(tl, append(base, opts...)...)
}

func TestSign(t *testing.T) {
	Convey("Given a fresh simulator", t, func() {
		tl := clock.NewTimeline()
		sim := newSim(tl)
		sim.Start()

		Convey("Then nothing happens before the user signs", func() {
			tl.Advance(time.Minute)
			So(sim.Signatures(), ShouldBeEmpty)
			So(sim.Pending(), ShouldEqual, 0)
			So(sim.Status(), ShouldEqual, "The signal awaits your resonance")
		})

		Convey("When the user signs twice", func() {
			first := sim.Sign()
			second := sim.Sign()

			Convey("Then exactly one user signature exists at the centre", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				sigs := sim.Signatures()
				So(len(sigs), ShouldEqual, 1)
				So(sigs[0].ID, ShouldEqual, model.UserSignatureID)
				So(sigs[0].X, ShouldEqual, 0.5)
				So(sigs[0].Y, ShouldEqual, 0.5)
				So(sigs[0].IsUser, ShouldBeTrue)
			})

			Convey("Then stability is still zero until the next update", func() {
				So(sim.Stability(), ShouldEqual, 0)
				tl.Advance(0)
				So(sim.Stability(), ShouldAlmostEqual, 0.1*(1.0/20), 1e-12)
				So(sim.Status(), ShouldEqual, "1 resonance detected... Signal unstable")
			})
		})
	})
}

func TestArrivals(t *testing.T) {
	Convey("Given a signed simulator", t, func() {
		tl := clock.NewTimeline()
		sim := newSim(tl)
		sim.Start()
		sim.Sign()

		Convey("When arrivals always join", func() {
			sim = newSim(tl, coherence.WithJoinProbability(1))
			sim.Start()
			sim.Sign()
			tl.Advance(10 * time.Second)

			Convey("Then one signature lands per period inside the margin", func() {
				sigs := sim.Signatures()
				So(len(sigs), ShouldEqual, 5)
				for _, s := range sigs[1:] {
					So(s.IsUser, ShouldBeFalse)
					So(s.X, ShouldBeBetweenOrEqual, 0.15, 0.85)
					So(s.Y, ShouldBeBetweenOrEqual, 0.15, 0.85)
				}
				So(sigs[1].ID, ShouldEqual, "sig-1")
				So(sigs[1].Timestamp, ShouldEqual, 2500*time.Millisecond)
			})
		})

		Convey("When arrivals never join", func() {
			sim = newSim(tl, coherence.WithJoinProbability(0))
			sim.Start()
			sim.Sign()
			tl.Advance(time.Minute)

			Convey("Then only the user signature remains", func() {
				So(len(sim.Signatures()), ShouldEqual, 1)
			})
		})

		Convey("When two simulators share a seed", func() {
			ta, tb := clock.NewTimeline(), clock.NewTimeline()
			a := newSim(ta)
			b := newSim(tb)
			a.Start()
			b.Start()
			a.Sign()
			b.Sign()
			ta.Advance(time.Minute)
			tb.Advance(time.Minute)

			Convey("Then they produce identical signatures", func() {
				So(a.Signatures(), ShouldResemble, b.Signatures())
			})
		})
	})
}

func TestStability(t *testing.T) {
	Convey("Given a simulator with a full field", t, func() {
		tl := clock.NewTimeline()
		var recomputed []float64
		sim := newSim(tl,
			coherence.WithTargetSignatures(1),
			coherence.WithOnRecompute(func(s float64) { recomputed = append(recomputed, s) }),
		)
		sim.Start()
		sim.Sign()
		tl.Advance(0)

		Convey("When recomputing repeatedly", func() {
			for range 60 {
				sim.Recompute()
			}

			Convey("Then the gap shrinks by the smoothing factor each step and never overshoots", func() {
				So(len(recomputed), ShouldEqual, 61)
				for i := 1; i < len(recomputed); i++ {
					prevGap := 1 - recomputed[i-1]
					gap := 1 - recomputed[i]
					So(gap, ShouldAlmostEqual, prevGap*0.9, 1e-9)
					So(recomputed[i], ShouldBeLessThanOrEqualTo, 1)
				}
			})
		})

		Convey("When counting updates until stabilized", func() {
			updates := 1
			for !sim.IsStabilized() && updates < 100 {
				sim.Recompute()
				updates++
			}

			Convey("Then it takes about 38 updates", func() {
				So(updates, ShouldEqual, int(math.Ceil(math.Log(0.02)/math.Log(0.9))))
				So(sim.Stability(), ShouldBeGreaterThanOrEqualTo, 0.98)
				So(sim.Status(), ShouldEqual, "Coherence achieved. The signal is stable.")
				So(sim.Percent(), ShouldEqual, 98)
			})
		})
	})
}

func TestUnreachableThreshold(t *testing.T) {
	Convey("Given a threshold of 1", t, func() {
		tl := clock.NewTimeline()

		Convey("When smoothing is partial and arrivals keep coming", func() {
			sim := newSim(tl,
				coherence.WithThreshold(1),
				coherence.WithTargetSignatures(1),
				coherence.WithJoinProbability(1),
				coherence.WithPeriod(100*time.Millisecond),
			)
			sim.Start()
			sim.Sign()
			tl.Advance(5 * time.Minute)

			Convey("Then the default threshold applies and the signal still stabilizes", func() {
				So(sim.IsStabilized(), ShouldBeTrue)
			})
		})

		Convey("When smoothing is full", func() {
			sim := newSim(tl,
				coherence.WithThreshold(1),
				coherence.WithSmoothing(1),
				coherence.WithTargetSignatures(1),
				coherence.WithJoinProbability(0),
			)
			sim.Start()
			sim.Sign()
			tl.Advance(0)

			Convey("Then one recompute reaches 1 and stabilizes", func() {
				So(sim.Stability(), ShouldEqual, 1.0)
				So(sim.IsStabilized(), ShouldBeTrue)
			})
		})
	})
}

func TestStabilizedNotification(t *testing.T) {
	Convey("Given a simulator about to stabilize", t, func() {
		tl := clock.NewTimeline()
		calls := 0
		sim := newSim(tl,
			coherence.WithTargetSignatures(1),
			coherence.WithJoinProbability(0),
			coherence.WithOnStabilized(func() { calls++ }),
		)
		sim.Start()
		sim.Sign()
		tl.Advance(0)
		for !sim.IsStabilized() {
			sim.Recompute()
		}
		crossed := tl.Now()

		Convey("When less than the delay has passed", func() {
			tl.AdvanceTo(crossed + 1999*time.Millisecond)

			Convey("Then the listener has not fired", func() {
				So(calls, ShouldEqual, 0)
			})
		})

		Convey("When the delay passes and stability keeps moving", func() {
			tl.AdvanceTo(crossed + 2*time.Second)
			for range 10 {
				sim.Recompute()
			}
			tl.Advance(time.Minute)

			Convey("Then the listener fired exactly once", func() {
				So(calls, ShouldEqual, 1)
			})
		})

		Convey("When the simulator is reset", func() {
			sim.Reset()
			tl.Advance(time.Minute)

			Convey("Then the pending notification is cancelled and the latch cleared", func() {
				So(calls, ShouldEqual, 0)
				So(sim.IsStabilized(), ShouldBeFalse)
				So(sim.Signed(), ShouldBeFalse)
				So(sim.Pending(), ShouldEqual, 0)
				So(sim.Sign(), ShouldBeTrue)
			})
		})
	})
}

func TestStatusBands(t *testing.T) {
	Convey("Given a signed simulator with many arrivals", t, func() {
		tl := clock.NewTimeline()
		sim := newSim(tl, coherence.WithJoinProbability(1), coherence.WithTargetSignatures(4))
		sim.Start()
		sim.Sign()

		Convey("Then the status suffix tracks stability bands", func() {
			seen := map[string]bool{}
			for range 80 {
				tl.Advance(2500 * time.Millisecond)
				if sim.IsStabilized() {
					break
				}
				st := sim.Status()
				switch {
				case sim.Stability() < 0.3:
					So(st, ShouldEndWith, " Signal unstable")
				case sim.Stability() < 0.6:
					So(st, ShouldEndWith, " Patterns emerging")
				case sim.Stability() < 0.9:
					So(st, ShouldEndWith, " Coherence forming")
				default:
					So(st, ShouldEndWith, " Almost synchronized")
				}
				seen[strings.SplitN(st, "...", 2)[1]] = true
			}
			So(sim.IsStabilized(), ShouldBeTrue)
			So(len(seen), ShouldBeGreaterThan, 1)
		})
	})
}

func TestActivation(t *testing.T) {
	Convey("Given the threshold gate", t, func() {
		Convey("When stability is at or below the threshold", func() {
			Convey("Then the element is dark", func() {
				So(coherence.Activation(5, 10, 0.5, 3), ShouldResemble, coherence.Gate{})
				So(coherence.Activation(9, 10, 0.2, 3).Active, ShouldBeFalse)
			})
		})

		Convey("When stability passes the threshold", func() {
			g := coherence.Activation(5, 10, 0.6, 3)

			Convey("Then intensity grows k times faster and caps at one", func() {
				So(g.Active, ShouldBeTrue)
				So(g.Intensity, ShouldAlmostEqual, 0.3, 1e-9)
				So(coherence.Activation(0, 10, 1, 3).Intensity, ShouldEqual, 1)
				So(coherence.ActivationAt(0.8*0.5, 0.5, 3).Intensity, ShouldAlmostEqual, 0.3, 1e-9)
			})
		})

		Convey("When the count is zero", func() {
			Convey("Then the threshold is zero", func() {
				So(coherence.Activation(0, 0, 0.1, 2).Active, ShouldBeTrue)
			})
		})
	})
}
