package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/adapters/render/glitch"
	"github.com/okian/fracture/internal/app"
	"github.com/okian/fracture/internal/config"
	"github.com/okian/fracture/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// quiet keeps text legible so views can be matched.
var quiet = glitch.Settings{Chance: 0, BurstChance: 0, Interval: time.Second}

func newModel() (Model, *app.Experience) {
	ctx := context.Background()
	cfg := config.New(ctx)
	cfg.Seed = 11
	cfg.TargetSignatures = 1
	cfg.JoinProbability = 1
	cfg.SignaturePeriodMS = 100

	exp, err := app.New(cfg)
	So(err, ShouldBeNil)
	So(exp.Start(ctx), ShouldBeNil)

	m, err := New(ctx, exp, cfg, WithGlitchSettings(quiet))
	So(err, ShouldBeNil)
	return update(m, tea.WindowSizeMsg{Width: 100, Height: 40}), exp
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model) //nolint:forcetypeassert // Update always returns Model
}

func advance(m Model, d time.Duration) Model {
	for elapsed := time.Duration(0); elapsed < d; elapsed += m.interval {
		m = update(m, tickMsg(time.Time{}))
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func view(m Model) string { return ansi.Strip(m.View()) }

func TestModel_Landing(t *testing.T) {
	Convey("Given the program at startup", t, func() {
		m, exp := newModel()

		Convey("Then the intro headline and the signal switcher are shown", func() {
			v := view(m)
			So(v, ShouldContainSubstring, "A FRACTURED SIGNAL")
			So(v, ShouldContainSubstring, "HAS BROKEN THROUGH")
			So(v, ShouldContainSubstring, "SIGNAL III")
			So(v, ShouldContainSubstring, "quit")
		})

		Convey("When a frame passes", func() {
			m = advance(m, m.interval)

			Convey("Then the noise overlay is running on the shared timeline", func() {
				So(m.noiseOn, ShouldBeTrue)
				So(m.overlay.Pending(), ShouldEqual, 1)
				So(m.field.Elapsed(), ShouldEqual, m.interval)
			})
		})

		Convey("When 2 is pressed", func() {
			m = update(m, runes("2"))

			Convey("Then the sequence restarts on the second signal", func() {
				s := exp.Snapshot()
				So(s.SignalVariant, ShouldEqual, model.SignalCrystal)
				So(s.Restarts, ShouldEqual, 1)
				So(s.Phase, ShouldEqual, model.PhaseIntro)

				m = advance(m, m.interval)
				So(m.field.Variant(), ShouldEqual, model.SignalCrystal)
			})
		})

		Convey("When the transition cue passes", func() {
			m = advance(m, 6*time.Second)

			Convey("Then the second phrase replaces the first", func() {
				v := view(m)
				So(v, ShouldContainSubstring, "YOUR RESONANCE IS REQUIRED")
				So(v, ShouldContainSubstring, "TO STABILISE IT")
				So(v, ShouldNotContainSubstring, "A FRACTURED SIGNAL")
			})
		})

		Convey("When the mouse moves to the right edge", func() {
			m = update(m, tea.MouseMsg{X: 100, Y: 20, Action: tea.MouseActionMotion})
			m = advance(m, 10*m.interval)

			Convey("Then the pointer drifts toward it", func() {
				So(m.pointer.X, ShouldBeGreaterThan, 0.5)
				So(m.pointer.Y, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When q is pressed", func() {
			next, cmd := m.Update(runes("q"))

			Convey("Then the program quits with an empty view", func() {
				So(cmd, ShouldNotBeNil)
				_, ok := cmd().(tea.QuitMsg)
				So(ok, ShouldBeTrue)
				So(next.View(), ShouldBeEmpty)
			})
		})
	})
}

func TestModel_Journey(t *testing.T) {
	Convey("Given the program left to reach reveal", t, func() {
		m, exp := newModel()
		m = advance(m, 19*time.Second)
		So(exp.Snapshot().Phase, ShouldEqual, model.PhaseReveal)

		Convey("Then the call to action is shown and the switcher is gone", func() {
			v := view(m)
			So(v, ShouldContainSubstring, "STABILISE THE SIGNAL")
			So(v, ShouldNotContainSubstring, "SIGNAL III")
			So(m.noiseOn, ShouldBeFalse)

			m = update(m, runes("3"))
			So(exp.Snapshot().SignalVariant, ShouldEqual, model.SignalBurst)
		})

		Convey("When the user enters coherence", func() {
			m = update(m, enter)
			m = advance(m, m.interval)

			Convey("Then the map waits for a signature", func() {
				v := view(m)
				So(v, ShouldContainSubstring, "Coherence Map")
				So(v, ShouldContainSubstring, "Sacred Geometry")
				So(v, ShouldContainSubstring, "The signal awaits your resonance")
				So(v, ShouldContainSubstring, "ADD YOUR SIGNATURE")
				So(v, ShouldContainSubstring, "0%")
			})

			Convey("Then tab cycles the visualization", func() {
				m = update(m, tab)
				So(exp.Snapshot().CoherenceVariant, ShouldEqual, model.CoherenceNeural)
				So(m.snapshot.CoherenceVariant, ShouldEqual, model.CoherenceNeural)
			})

			Convey("When the user signs and the signal stabilizes", func() {
				m = update(m, space)
				So(exp.Snapshot().Signed, ShouldBeTrue)
				So(view(m), ShouldNotContainSubstring, "ADD YOUR SIGNATURE")

				m = advance(m, 10*time.Second)

				Convey("Then the final screen offers to continue", func() {
					v := view(m)
					So(v, ShouldContainSubstring, "The Signal is Stabilised")
					So(v, ShouldContainSubstring, "CONTINUE THE JOURNEY")
				})

				Convey("When the user continues", func() {
					m = update(m, enter)

					Convey("Then the ARG page replaces the stopped experience", func() {
						So(m.route, ShouldEqual, routeARG)
						So(view(m), ShouldContainSubstring, "ARG Section")
						So(exp.Snapshot().Started, ShouldBeFalse)
						So(m.effectsOn, ShouldBeFalse)
					})

					Convey("Then the pages chain forward to path selection", func() {
						m = update(m, runes("n"))
						So(view(m), ShouldContainSubstring, "Platform Opens")
						m = update(m, runes("n"))
						v := view(m)
						So(v, ShouldContainSubstring, "Path Selection")
						So(v, ShouldContainSubstring, "Path Three")

						m = update(m, down)
						m = update(m, enter)
						So(m.chosen, ShouldEqual, "path-2")
						So(view(m), ShouldContainSubstring, "✓ selected")
					})

					Convey("Then going back to the landing page starts a fresh visit", func() {
						m = update(m, runes("b"))
						So(m.route, ShouldEqual, routeLanding)
						s := exp.Snapshot()
						So(s.Started, ShouldBeTrue)
						So(s.Phase, ShouldEqual, model.PhaseIntro)
						So(s.Signatures, ShouldBeEmpty)
						So(m.effectsOn, ShouldBeTrue)
						So(view(m), ShouldContainSubstring, "A FRACTURED SIGNAL")
					})
				})
			})
		})
	})
}

func TestKeyMap(t *testing.T) {
	Convey("Given the key map", t, func() {
		k := defaultKeyMap()

		Convey("Then the paths page only enables list and back keys", func() {
			p := k.forPage(routePaths, false, false)
			So(p.Up.Enabled(), ShouldBeTrue)
			So(p.Back.Enabled(), ShouldBeTrue)
			So(p.Next.Enabled(), ShouldBeFalse)
			So(p.Signal1.Enabled(), ShouldBeFalse)
		})

		Convey("Then the landing page enables switchers by phase", func() {
			p := k.forPage(routeLanding, true, false)
			So(p.Signal2.Enabled(), ShouldBeTrue)
			So(p.Coherence.Enabled(), ShouldBeFalse)
			So(p.Back.Enabled(), ShouldBeFalse)

			p = k.forPage(routeLanding, false, true)
			So(p.Signal2.Enabled(), ShouldBeFalse)
			So(p.Coherence.Enabled(), ShouldBeTrue)
		})

		Convey("Then help lists every binding", func() {
			So(len(k.ShortHelp()), ShouldEqual, 8)
			So(len(k.FullHelp()), ShouldEqual, 3)
		})
	})
}

func TestPalette(t *testing.T) {
	Convey("Given a canvas with two violet cells", t, func() {
		c := render.NewCanvas(4, 1)
		c.Set(0, 0, 'a', render.ToneViolet, 1)
		c.Set(1, 0, 'b', render.ToneViolet, 1)
		c.Set(3, 0, 'c', render.ToneGold, 0.1)
		p := newPalette()

		Convey("Then painting keeps the glyphs and shares one style per run", func() {
			So(ansi.Strip(p.paint(c)), ShouldEqual, "ab c")
			So(len(p.cache), ShouldEqual, 2)
		})

		Convey("Then alpha is quantized", func() {
			So(level(0), ShouldEqual, 0)
			So(level(1), ShouldEqual, alphaLevels)
			So(level(2), ShouldEqual, alphaLevels)
			So(level(-1), ShouldEqual, 0)
		})
	})
}
