// Package tui is the terminal front end: a bubbletea program that draws the
// landing experience and the pages that follow it.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/adapters/render/coherencemap"
	"github.com/okian/fracture/internal/adapters/render/field"
	"github.com/okian/fracture/internal/adapters/render/glitch"
	"github.com/okian/fracture/internal/adapters/render/noise"
	"github.com/okian/fracture/internal/app"
	"github.com/okian/fracture/internal/config"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/internal/domain/signal"
	"github.com/okian/fracture/pkg/logger"
	"github.com/okian/fracture/pkg/metrics"
)

// Fallback terminal size until the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// tickMsg advances the experience by one frame.
type tickMsg time.Time

// Model is the bubbletea model for the whole program.
type Model struct {
	ctx    context.Context
	exp    *app.Experience
	keys   keyMap
	help   help.Model
	pal    *palette
	logger logger.Logger

	// Renderers
	field    *field.Field
	overlay  *noise.Overlay
	headline *glitch.Effect
	body     *glitch.Effect
	caption  *glitch.Effect
	maps     map[model.CoherenceVariant]coherencemap.Renderer
	pointer  *signal.Pointer
	canvas   *render.Canvas

	// Frame state
	interval   time.Duration
	snapshot   app.Snapshot
	mapElapsed time.Duration
	noiseOn    bool
	effectsOn  bool

	// Layout and navigation
	width, height int
	route         route
	paths         []pathOption
	cursor        int
	chosen        string
	quitting      bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithGlitchSettings overrides every text glitch preset.
func WithGlitchSettings(s glitch.Settings) Option {
	return func(m *Model) {
		for _, e := range []*glitch.Effect{m.headline, m.body, m.caption} {
			glitch.WithSettings(s)(e)
		}
	}
}

// New builds the program model around a started experience.
func New(ctx context.Context, exp *app.Experience, cfg *config.Config, opts ...Option) (Model, error) {
	noiseLevel, err := noise.ParseLevel(cfg.NoiseIntensity)
	if err != nil {
		return Model{}, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	seed := exp.Seed()
	sched := exp.Scheduler()
	rng := func(offset int64) *rand.Rand {
		return rand.New(rand.NewSource(seed + offset)) //nolint:gosec // visual effects only
	}

	s := exp.Snapshot()
	m := Model{
		ctx:      ctx,
		exp:      exp,
		keys:     defaultKeyMap(),
		help:     help.New(),
		pal:      newPalette(),
		logger:   logger.Discard(),
		field:    field.New(seed, s.SignalVariant),
		overlay:  noise.New(sched, rng(1), defaultWidth, defaultHeight-2, noise.WithLevel(noiseLevel)),
		headline: glitch.New(sched, rng(2), glitch.WithIntensity(glitch.High)),
		body:     glitch.New(sched, rng(3), glitch.WithIntensity(glitch.Medium)),
		caption:  glitch.New(sched, rng(4), glitch.WithIntensity(glitch.Low)),
		maps:     make(map[model.CoherenceVariant]coherencemap.Renderer),
		pointer:  signal.NewPointer(),
		canvas:   render.NewCanvas(defaultWidth, defaultHeight-2),
		interval: cfg.FrameInterval(),
		snapshot: s,
		width:    defaultWidth,
		height:   defaultHeight,
		route:    routeLanding,
		paths:    mockPaths(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Width = m.width
	m.keys = m.keys.forPage(m.route, s.Started && s.Phase.ShowsSignalSwitcher(), s.Phase == model.PhaseCoherence)
	m.syncEffects()
	return m, nil
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), tea.SetWindowTitle("fracture"))
}

// Update handles input and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tickMsg:
		m.frame()
		return m, m.tick()

	case tea.MouseMsg:
		if m.width > 0 && m.height > 0 {
			m.pointer.Target(float64(msg.X)/float64(m.width), float64(msg.Y)/float64(m.height))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ============================================================================
// Frame loop
// ============================================================================

// frame advances the experience and the renderers by one interval.
func (m *Model) frame() {
	start := time.Now()

	m.exp.Advance(m.interval)
	prev := m.snapshot
	m.snapshot = m.exp.Snapshot()
	s := m.snapshot

	m.pointer.Step()
	m.field.SetPointer(m.pointer.X, m.pointer.Y)
	m.field.SetVariant(s.SignalVariant)
	if s.SignalFrame().Visible() {
		m.field.Step(m.interval)
	}
	if s.Phase == model.PhaseCoherence {
		if prev.Phase != model.PhaseCoherence || prev.CoherenceVariant != s.CoherenceVariant {
			m.mapElapsed = 0
		}
		m.mapElapsed += m.interval
	}
	m.overlay.SetOpacity(s.Intensity)
	m.syncEffects()

	metrics.RecordFrame(float64(time.Since(start).Microseconds()) / 1000)
}

// syncEffects starts or stops the timed renderers for the current page.
func (m *Model) syncEffects() {
	landing := m.route == routeLanding
	wantNoise := landing && m.snapshot.Phase.ShowsSignalSwitcher()
	if wantNoise == m.noiseOn && landing == m.effectsOn {
		return
	}
	m.exp.Do(func() {
		if wantNoise != m.noiseOn {
			if wantNoise {
				m.overlay.Start()
			} else {
				m.overlay.Stop()
			}
		}
		if landing != m.effectsOn {
			for _, e := range []*glitch.Effect{m.headline, m.body, m.caption} {
				if landing {
					e.Start()
				} else {
					e.Stop()
				}
			}
		}
	})
	m.noiseOn, m.effectsOn = wantNoise, landing
}

func (m *Model) resize() {
	w, h := max(m.width, 0), max(m.bodyHeight(), 0)
	m.canvas = render.NewCanvas(w, h)
	m.overlay.Resize(w, h)
}

// bodyHeight leaves a row for the switcher and one for help.
func (m Model) bodyHeight() int {
	return m.height - 2
}

func (m Model) mapFor(v model.CoherenceVariant) coherencemap.Renderer {
	r, ok := m.maps[v]
	if !ok {
		r = coherencemap.ForVariant(v, m.exp.Seed())
		m.maps[v] = r
	}
	return r
}

// ============================================================================
// Input
// ============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.exp.Snapshot()
	m.snapshot = s
	m.keys = defaultKeyMap().forPage(m.route, s.Started && s.Phase.ShowsSignalSwitcher(), s.Phase == model.PhaseCoherence)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.route {
	case routeLanding:
		m.landingKey(msg)
	case routeARG, routePlatform:
		p := placeholders[m.route]
		switch {
		case key.Matches(msg, m.keys.Back):
			m.navigate(p.back)
		case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Action):
			m.navigate(p.next)
		}
	case routePaths:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor + len(m.paths) - 1) % len(m.paths)
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % len(m.paths)
		case key.Matches(msg, m.keys.Action):
			m.chosen = m.paths[m.cursor].ID
			m.logger.Info(m.ctx, "path selected", logger.String("path", m.chosen))
		case key.Matches(msg, m.keys.Back):
			m.navigate(routePlatform)
		}
	}
	m.snapshot = m.exp.Snapshot()
	m.keys = defaultKeyMap().forPage(m.route, m.snapshot.Started && m.snapshot.Phase.ShowsSignalSwitcher(), m.snapshot.Phase == model.PhaseCoherence)
	m.syncEffects()
	return m, nil
}

func (m *Model) landingKey(msg tea.KeyMsg) {
	variants := model.SignalVariants()
	for i, b := range []key.Binding{m.keys.Signal1, m.keys.Signal2, m.keys.Signal3} {
		if key.Matches(msg, b) {
			m.exp.SwitchSignal(variants[i])
			return
		}
	}
	switch {
	case key.Matches(msg, m.keys.Coherence):
		m.exp.SwitchCoherence(m.snapshot.CoherenceVariant.Next())
	case key.Matches(msg, m.keys.Action):
		switch m.snapshot.Phase {
		case model.PhaseReveal:
			m.exp.EnterCoherence()
		case model.PhaseCoherence:
			m.exp.Sign()
		case model.PhaseFinal:
			m.navigate(routeARG)
		}
	}
}

// navigate switches pages. Leaving the landing page stops the experience;
// coming back starts a fresh visit.
func (m *Model) navigate(to route) {
	if to == m.route {
		return
	}
	from := m.route
	m.route = to
	switch {
	case from == routeLanding:
		m.exp.Stop()
	case to == routeLanding:
		if err := m.exp.Restart(m.ctx); err != nil {
			m.logger.Error(m.ctx, "restart experience", logger.Error(err))
		}
	}
	m.logger.Debug(m.ctx, "navigate", logger.String("from", string(from)), logger.String("to", string(to)))
}
