// Package noise draws the full-viewport static that sits over the signal:
// random cells, horizontal glitch lines, rare violet flashes and scanlines,
// redrawn at a fixed rate.
package noise

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/clock"
)

// Level selects a noise preset.
type Level string

// Levels.
const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Redraw cadence and composition constants.
const (
	FrameInterval  = time.Second / 30
	cellChance     = 0.3
	flashChance    = 0.02
	flashAlpha     = 0.15
	scanlineEvery  = 4
	scanlineAlpha  = 0.06
	maxAlpha       = 255.0
	redShiftChance = 0.3
)

// Settings tune the overlay.
type Settings struct {
	Alpha        float64 // peak cell alpha on a 0-255 scale
	GlitchChance float64 // probability of glitch lines per redraw
	MaxLines     int     // glitch lines per redraw, at most
}

// SettingsFor returns the preset for l. Unknown levels get Medium.
func SettingsFor(l Level) Settings {
	switch l {
	case Low:
		return Settings{Alpha: 40, GlitchChance: 0.05, MaxLines: 3}
	case High:
		return Settings{Alpha: 120, GlitchChance: 0.3, MaxLines: 10}
	default:
		return Settings{Alpha: 80, GlitchChance: 0.15, MaxLines: 6}
	}
}

// ParseLevel parses a preset name.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Low, Medium, High:
		return l, nil
	default:
		return Medium, fmt.Errorf("unknown noise level %q", s)
	}
}

// Overlay owns the current noise frame.
type Overlay struct {
	group    *clock.Group
	rng      *rand.Rand
	settings Settings
	canvas   *render.Canvas
	opacity  float64
	frames   int
	flashed  bool
	running  bool
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLevel selects a preset.
func WithLevel(l Level) Option {
	return func(o *Overlay) {
		o.settings = SettingsFor(l)
	}
}

// New creates an idle overlay of size w×h.
func New(s clock.Scheduler, rng *rand.Rand, w, h int, opts ...Option) *Overlay {
	o := &Overlay{
		group:    clock.NewGroup(s),
		rng:      rng,
		settings: SettingsFor(Medium),
		canvas:   render.NewCanvas(w, h),
		opacity:  1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start begins redrawing at FrameInterval.
func (o *Overlay) Start() {
	if o.running {
		return
	}
	o.running = true
	o.group.Every(FrameInterval, o.redraw)
}

// Stop cancels the redraw timer and blanks the frame.
func (o *Overlay) Stop() {
	o.group.CancelAll()
	o.running = false
	o.canvas.Clear()
}

// Resize reallocates the frame. The next redraw fills it.
func (o *Overlay) Resize(w, h int) {
	if w == o.canvas.W && h == o.canvas.H {
		return
	}
	o.canvas = render.NewCanvas(w, h)
}

// SetOpacity scales every alpha the overlay draws.
func (o *Overlay) SetOpacity(v float64) {
	o.opacity = max(0, min(1, v))
}

// Frames returns how many redraws happened.
func (o *Overlay) Frames() int { return o.frames }

// Flashed reports whether the latest frame was a violet flash.
func (o *Overlay) Flashed() bool { return o.flashed }

// Pending returns the number of timers the overlay owns.
func (o *Overlay) Pending() int { return o.group.Pending() }

// Canvas returns the latest frame.
func (o *Overlay) Canvas() *render.Canvas { return o.canvas }

// Compose blends the latest frame onto dst.
func (o *Overlay) Compose(dst *render.Canvas) {
	for y := 0; y < min(dst.H, o.canvas.H); y++ {
		for x := 0; x < min(dst.W, o.canvas.W); x++ {
			if c := o.canvas.At(x, y); c.Rune != ' ' {
				dst.Blend(x, y, c.Rune, c.Tone, c.Alpha)
			}
		}
	}
}

func (o *Overlay) redraw() {
	o.frames++
	c := o.canvas
	c.Clear()
	o.flashed = false
	if o.opacity <= 0 {
		return
	}

	peak := o.settings.Alpha / maxAlpha * o.opacity
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			if o.rng.Float64() >= cellChance {
				continue
			}
			a := o.rng.Float64() * peak
			c.Set(x, y, render.Shade(a*4), render.ToneWhite, a)
		}
	}

	if c.H > 0 && o.rng.Float64() < o.settings.GlitchChance {
		lines := 1 + o.rng.Intn(o.settings.MaxLines)
		for range lines {
			y := o.rng.Intn(c.H)
			tone := render.ToneWhite
			if o.rng.Float64() < 0.5 {
				tone = render.ToneViolet
			}
			a := (0.1 + o.rng.Float64()*0.3) * o.opacity
			for x := 0; x < c.W; x++ {
				c.Set(x, y, '─', tone, a)
			}
			if o.rng.Float64() < redShiftChance && y+1 < c.H {
				for x := 0; x < c.W; x++ {
					c.Blend(x, y+1, '─', render.ToneRed, a*0.5)
				}
			}
		}
	}

	if o.rng.Float64() < flashChance {
		o.flashed = true
		for y := 0; y < c.H; y++ {
			for x := 0; x < c.W; x++ {
				c.Blend(x, y, '░', render.ToneViolet, flashAlpha*o.opacity)
			}
		}
	}

	for y := 0; y < c.H; y += scanlineEvery {
		for x := 0; x < c.W; x++ {
			c.Blend(x, y, '·', render.ToneAbyss, scanlineAlpha*o.opacity)
		}
	}
}
