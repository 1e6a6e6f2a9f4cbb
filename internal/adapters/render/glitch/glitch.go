// Package glitch jitters a line of text: random offsets, dropped glyphs and
// a corrupted band, fired on scheduler ticks with occasional rapid bursts.
package glitch

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/okian/fracture/internal/clock"
)

// Intensity selects a glitch preset.
type Intensity string

// Intensities.
const (
	Low    Intensity = "low"
	Medium Intensity = "medium"
	High   Intensity = "high"
)

// Settings tune how often and how hard text glitches.
type Settings struct {
	Chance      float64       // probability of a single glitch per tick
	MaxOffset   float64       // largest offset, in pixels at intensity 1
	Interval    time.Duration // tick period
	BurstChance float64       // probability of a burst per tick
}

// Burst shape.
const (
	burstMin       = 3
	burstSpread    = 5
	burstMinDur    = 40 * time.Millisecond
	burstSpreadDur = 60 * time.Millisecond
	burstMinGap    = 30 * time.Millisecond
	burstSpreadGap = 50 * time.Millisecond
	burstStrength  = 2.0

	singleMinDur    = 50 * time.Millisecond
	singleSpreadDur = 100 * time.Millisecond

	// pixelsPerCell converts pixel offsets to terminal columns.
	pixelsPerCell = 4.0
)

// SettingsFor returns the preset for i. Unknown intensities get Medium.
func SettingsFor(i Intensity) Settings {
	switch i {
	case Low:
		return Settings{Chance: 0.08, MaxOffset: 4, Interval: 80 * time.Millisecond, BurstChance: 0.02}
	case High:
		return Settings{Chance: 0.25, MaxOffset: 15, Interval: 30 * time.Millisecond, BurstChance: 0.1}
	default:
		return Settings{Chance: 0.15, MaxOffset: 8, Interval: 50 * time.Millisecond, BurstChance: 0.05}
	}
}

// ParseIntensity parses a preset name.
func ParseIntensity(s string) (Intensity, error) {
	switch i := Intensity(strings.ToLower(strings.TrimSpace(s))); i {
	case Low, Medium, High:
		return i, nil
	default:
		return Medium, fmt.Errorf("unknown glitch intensity %q", s)
	}
}

// State is the current distortion.
type State struct {
	OffsetX   float64
	OffsetY   float64
	Opacity   float64
	Skew      float64
	ClipStart float64 // corrupted band start, fraction of the text
	ClipEnd   float64
	Glitching bool
	seed      int64
}

func restState() State { return State{Opacity: 1} }

// Effect drives the glitch state of one text element.
type Effect struct {
	group    *clock.Group
	rng      *rand.Rand
	settings Settings
	state    State
	running  bool
	bursting bool
}

// Option configures an Effect.
type Option func(*Effect)

// WithIntensity selects a preset.
func WithIntensity(i Intensity) Option {
	return func(e *Effect) {
		e.settings = SettingsFor(i)
	}
}

// WithSettings sets custom settings. Settings with a non-positive Interval or
// a negative MaxOffset are ignored.
func WithSettings(s Settings) Option {
	return func(e *Effect) {
		if s.Interval > 0 && s.MaxOffset >= 0 {
			e.settings = s
		}
	}
}

// New creates an idle effect. rng drives every random choice.
func New(s clock.Scheduler, rng *rand.Rand, opts ...Option) *Effect {
	e := &Effect{
		group:    clock.NewGroup(s),
		rng:      rng,
		settings: SettingsFor(Medium),
		state:    restState(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins ticking. Starting a running effect is a no-op.
func (e *Effect) Start() {
	if e.running {
		return
	}
	e.running = true
	e.group.Every(e.settings.Interval, e.tick)
}

// Stop cancels every timer and clears the distortion.
func (e *Effect) Stop() {
	e.group.CancelAll()
	e.running = false
	e.bursting = false
	e.state = restState()
}

// State returns the current distortion.
func (e *Effect) State() State { return e.state }

// Running reports whether the effect is ticking.
func (e *Effect) Running() bool { return e.running }

// Pending returns the number of timers the effect owns.
func (e *Effect) Pending() int { return e.group.Pending() }

func (e *Effect) tick() {
	if e.bursting || e.state.Glitching {
		return
	}
	if e.rng.Float64() < e.settings.BurstChance {
		e.burst()
		return
	}
	if e.rng.Float64() < e.settings.Chance {
		d := singleMinDur + time.Duration(e.rng.Float64()*float64(singleSpreadDur))
		e.glitch(1, d, nil)
	}
}

func (e *Effect) burst() {
	e.bursting = true
	remaining := burstMin + e.rng.Intn(burstSpread)
	var next func()
	next = func() {
		if remaining == 0 {
			e.bursting = false
			return
		}
		remaining--
		d := burstMinDur + time.Duration(e.rng.Float64()*float64(burstSpreadDur))
		e.glitch(burstStrength, d, func() {
			gap := burstMinGap + time.Duration(e.rng.Float64()*float64(burstSpreadGap))
			e.group.After(gap, next)
		})
	}
	next()
}

func (e *Effect) glitch(k float64, d time.Duration, then func()) {
	opacity := 1.0
	if u := e.rng.Float64(); u <= 0.2 {
		opacity = u*0.5 + 0.3
	}
	start := e.rng.Float64() * 0.8
	e.state = State{
		OffsetX:   (e.rng.Float64() - 0.5) * e.settings.MaxOffset * k,
		OffsetY:   (e.rng.Float64() - 0.5) * e.settings.MaxOffset * k,
		Opacity:   opacity,
		Skew:      (e.rng.Float64() - 0.5) * 5 * k,
		ClipStart: start,
		ClipEnd:   math.Min(1, start+0.05+e.rng.Float64()*0.25),
		Glitching: true,
		seed:      e.rng.Int63(),
	}
	e.group.After(d, func() {
		e.state = restState()
		if then != nil {
			then()
		}
	})
}

// Margin is the number of padding columns Render adds on each side.
func (e *Effect) Margin() int {
	return int(math.Ceil(e.settings.MaxOffset * burstStrength / 2 / pixelsPerCell))
}

// Render returns text as it looks right now. The result always has the
// same width: len(text) plus Margin() columns on each side.
func (e *Effect) Render(text string) string {
	return RenderState(text, e.state, e.Margin())
}

// RenderState renders text under st with margin columns of padding per side.
func RenderState(text string, st State, margin int) string {
	margin = max(0, margin)
	runes := []rune(text)
	shift := 0
	if st.Glitching {
		shift = int(math.Round(st.OffsetX / pixelsPerCell))
		shift = max(-margin, min(margin, shift))
	}

	if st.Glitching {
		rng := rand.New(rand.NewSource(st.seed)) //nolint:gosec // visual noise only
		lo := int(st.ClipStart * float64(len(runes)))
		hi := int(math.Ceil(st.ClipEnd * float64(len(runes))))
		out := make([]rune, len(runes))
		for i, r := range runes {
			switch {
			case r == ' ':
				out[i] = r
			case i >= lo && i < hi:
				out[i] = corrupt[rng.Intn(len(corrupt))]
			case rng.Float64() > st.Opacity:
				out[i] = ' '
			default:
				out[i] = r
			}
		}
		runes = out
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", margin+shift))
	b.WriteString(string(runes))
	b.WriteString(strings.Repeat(" ", margin-shift))
	return b.String()
}

var corrupt = []rune("▓▒░█▚▞╳") //nolint:gochecknoglobals // glyph set
