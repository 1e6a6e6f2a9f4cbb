package signal_test

import (
	"testing"

	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPresets(t *testing.T) {
	Convey("Given the signal presets", t, func() {
		Convey("When switching to another variant and back", func() {
			before := signal.PresetFor(model.SignalCrystal)
			_ = signal.PresetFor(model.SignalSynapse)
			after := signal.PresetFor(model.SignalCrystal)

			Convey("Then the same preset comes back", func() {
				So(after, ShouldResemble, before)
			})
		})

		Convey("Then each variant carries its own values", func() {
			So(signal.PresetFor(model.SignalBurst).Flicker, ShouldEqual, 8)
			So(signal.PresetFor(model.SignalCrystal).Distortion, ShouldEqual, 0.05)
			So(signal.PresetFor(model.SignalSynapse).Chromatic, ShouldEqual, 0.015)
			So(signal.PresetFor("unknown"), ShouldResemble, signal.PresetFor(model.SignalBurst))
		})
	})
}

func TestUniforms(t *testing.T) {
	Convey("Given the burst preset", t, func() {
		p := signal.PresetFor(model.SignalBurst)

		Convey("When chaos is zero", func() {
			Convey("Then the preset is unchanged", func() {
				So(signal.Uniforms(p, 0), ShouldResemble, p)
			})
		})

		Convey("When chaos is one", func() {
			u := signal.Uniforms(p, 1)

			Convey("Then distortion and glitch reach five times baseline", func() {
				So(u.Distortion, ShouldAlmostEqual, p.Distortion*5, 1e-12)
				So(u.GlitchAmount, ShouldAlmostEqual, p.GlitchAmount*5, 1e-12)
				So(u.FlowSpeed, ShouldAlmostEqual, p.FlowSpeed*4, 1e-12)
				So(u.Chromatic, ShouldAlmostEqual, p.Chromatic*7, 1e-12)
				So(u.Flicker, ShouldAlmostEqual, p.Flicker*3, 1e-12)
				So(u.PulseSpeed, ShouldAlmostEqual, p.PulseSpeed*3, 1e-12)
				So(u.PulseIntensity, ShouldAlmostEqual, p.PulseIntensity*3, 1e-12)
			})
		})

		Convey("When chaos is out of range", func() {
			Convey("Then it is clamped", func() {
				So(signal.Uniforms(p, 3), ShouldResemble, signal.Uniforms(p, 1))
				So(signal.Uniforms(p, -1), ShouldResemble, p)
			})
		})

		Convey("When deriving the background layer", func() {
			bg := signal.BackgroundLayer(p)

			Convey("Then it is calmer than the main layer", func() {
				So(bg.Distortion, ShouldAlmostEqual, p.Distortion*0.6, 1e-12)
				So(bg.FlowSpeed, ShouldAlmostEqual, p.FlowSpeed*0.7, 1e-12)
				So(bg.GlitchAmount, ShouldAlmostEqual, p.GlitchAmount*0.4, 1e-12)
				So(bg.Flicker, ShouldEqual, p.Flicker)
			})
		})

		Convey("When building a frame", func() {
			f := signal.Frame{Variant: model.SignalBurst, Intensity: 0.35, Chaos: 0.5, Scale: 1}

			Convey("Then its uniforms follow the chaos level", func() {
				So(f.Uniforms(), ShouldResemble, signal.Uniforms(p, 0.5))
				So(f.Visible(), ShouldBeTrue)
				So(signal.Frame{}.Visible(), ShouldBeFalse)
			})
		})
	})
}

func TestPointer(t *testing.T) {
	Convey("Given a pointer at rest", t, func() {
		p := signal.NewPointer()

		Convey("When it targets a corner", func() {
			p.Target(1, 0)
			p.Step()

			Convey("Then it covers five percent of the distance per frame", func() {
				So(p.X, ShouldAlmostEqual, 0.525, 1e-12)
				So(p.Y, ShouldAlmostEqual, 0.475, 1e-12)
			})

			Convey("Then it converges without overshooting", func() {
				for range 500 {
					p.Step()
				}
				So(p.X, ShouldBeLessThanOrEqualTo, 1)
				So(p.X, ShouldAlmostEqual, 1, 1e-6)
			})
		})
	})
}
