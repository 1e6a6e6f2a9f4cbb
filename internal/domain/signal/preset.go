// Package signal holds the parameters of the fractured signal: per-variant
// presets, how chaos scales them, and the smoothed pointer.
package signal

import "github.com/okian/fracture/internal/domain/model"

// Preset is the baseline look of one signal variant.
type Preset struct {
	Distortion     float64
	FlowSpeed      float64
	PulseSpeed     float64
	PulseIntensity float64
	GlitchAmount   float64
	Chromatic      float64
	Scanline       float64
	Flicker        float64
}

var presets = map[model.SignalVariant]Preset{ //nolint:gochecknoglobals // lookup table
	model.SignalBurst: {
		Distortion: 0.08, FlowSpeed: 0.8, PulseSpeed: 1.5, PulseIntensity: 0.4,
		GlitchAmount: 0.6, Chromatic: 0.012, Scanline: 0.15, Flicker: 8,
	},
	model.SignalCrystal: {
		Distortion: 0.05, FlowSpeed: 0.5, PulseSpeed: 1.2, PulseIntensity: 0.35,
		GlitchAmount: 0.4, Chromatic: 0.008, Scanline: 0.1, Flicker: 6,
	},
	model.SignalSynapse: {
		Distortion: 0.1, FlowSpeed: 1.0, PulseSpeed: 1.8, PulseIntensity: 0.45,
		GlitchAmount: 0.5, Chromatic: 0.015, Scanline: 0.12, Flicker: 10,
	},
}

// PresetFor returns the preset of v. Unknown variants get the burst preset.
func PresetFor(v model.SignalVariant) Preset {
	if p, ok := presets[v]; ok {
		return p
	}
	return presets[model.SignalBurst]
}

// Uniforms scales a preset by the chaos level c in [0,1].
func Uniforms(p Preset, c float64) Preset {
	c = clamp01(c)
	return Preset{
		Distortion:     p.Distortion * (1 + 4*c),
		FlowSpeed:      p.FlowSpeed * (1 + 3*c),
		PulseSpeed:     p.PulseSpeed * (1 + 2*c),
		PulseIntensity: p.PulseIntensity * (1 + 2*c),
		GlitchAmount:   p.GlitchAmount * (1 + 4*c),
		Chromatic:      p.Chromatic * (1 + 6*c),
		Scanline:       p.Scanline,
		Flicker:        p.Flicker * (1 + 2*c),
	}
}

// BackgroundScale is the geometric scale of the background layer.
const BackgroundScale = 1.3

// BackgroundLayer derives the calmer, larger layer drawn behind the main one.
func BackgroundLayer(p Preset) Preset {
	p.Distortion *= 0.6
	p.FlowSpeed *= 0.7
	p.GlitchAmount *= 0.4
	return p
}

// Frame is what the renderer needs to draw one frame of the signal.
type Frame struct {
	Variant   model.SignalVariant
	Intensity float64 // opacity
	Chaos     float64
	Scale     float64 // explode scale, >= 1
}

// Uniforms returns the chaos-scaled preset for the frame.
func (f Frame) Uniforms() Preset {
	return Uniforms(PresetFor(f.Variant), f.Chaos)
}

// Visible reports whether anything would be drawn.
func (f Frame) Visible() bool {
	return f.Intensity > 0
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
