package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/okian/fracture/internal/adapters/render"
)

// ============================================================================
// Palette
// ============================================================================

// Design tokens, approximated in sRGB.
const (
	hexVoid       = "#0a0a12"
	hexAbyss      = "#12101c"
	hexViolet     = "#a855f7"
	hexDeepViolet = "#7c3aed"
	hexGold       = "#f59e0b"
	hexCyan       = "#06b6d4"
	hexWhite      = "#eeeaf5"
	hexRed        = "#ef4444"
	hexInactive   = "#2a2a3a"
	hexMuted      = "#8b8799"
)

var (
	colorVoid     = lipgloss.Color(hexVoid)
	colorViolet   = lipgloss.Color(hexViolet)
	colorGold     = lipgloss.Color(hexGold)
	colorWhite    = lipgloss.Color(hexWhite)
	colorInactive = lipgloss.Color(hexInactive)
	colorMuted    = lipgloss.Color(hexMuted)
)

var toneHex = map[render.Tone]string{ //nolint:gochecknoglobals // palette lookup
	render.ToneVoid:       hexVoid,
	render.ToneAbyss:      hexAbyss,
	render.ToneViolet:     hexViolet,
	render.ToneDeepViolet: hexDeepViolet,
	render.ToneGold:       hexGold,
	render.ToneCyan:       hexCyan,
	render.ToneWhite:      hexWhite,
	render.ToneRed:        hexRed,
	render.ToneInactive:   hexInactive,
}

// alphaLevels quantizes cell alpha so runs of similar cells share a style.
const alphaLevels = 8

// palette turns canvas tones into colors blended toward the background.
type palette struct {
	background colorful.Color
	cache      map[paletteKey]lipgloss.Style
}

type paletteKey struct {
	tone  render.Tone
	level int
}

func newPalette() *palette {
	bg, _ := colorful.Hex(hexVoid)
	return &palette{background: bg, cache: make(map[paletteKey]lipgloss.Style)}
}

func level(alpha float64) int {
	return int(math.Round(math.Max(0, math.Min(1, alpha)) * alphaLevels))
}

// style returns the foreground style for a tone at an alpha level.
func (p *palette) style(k paletteKey) lipgloss.Style {
	if s, ok := p.cache[k]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if hex, ok := toneHex[k.tone]; ok {
		if c, err := colorful.Hex(hex); err == nil {
			// faint cells stay readable: the floor keeps a quarter of the tone
			t := 0.25 + 0.75*float64(k.level)/alphaLevels
			s = s.Foreground(lipgloss.Color(p.background.BlendLab(c, t).Clamped().Hex()))
		}
	}
	p.cache[k] = s
	return s
}

// paint renders a canvas as styled rows, merging runs of equal style.
func (p *palette) paint(c *render.Canvas) string {
	rows := make([]string, c.H)
	var row, run strings.Builder
	for y := 0; y < c.H; y++ {
		row.Reset()
		run.Reset()
		cur := paletteKey{}
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.tone == render.ToneNone {
				row.WriteString(run.String())
			} else {
				row.WriteString(p.style(cur).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.W; x++ {
			cell := c.At(x, y)
			k := paletteKey{tone: cell.Tone, level: level(cell.Alpha)}
			if cell.Rune == ' ' {
				k = paletteKey{}
			}
			if k != cur {
				flush()
				cur = k
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		rows[y] = row.String()
	}
	return strings.Join(rows, "\n")
}

// ============================================================================
// Text styles
// ============================================================================

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)

	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().Foreground(colorViolet).Bold(true)

	goldStyle = lipgloss.NewStyle().Foreground(colorGold).Bold(true)

	switcherActive = lipgloss.NewStyle().
			Foreground(colorVoid).
			Background(colorViolet).
			Bold(true).
			Padding(0, 1)

	switcherIdle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorViolet).
			Padding(0, 2)

	buttonPrimary = buttonStyle.
			BorderForeground(colorGold).
			Foreground(colorGold).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorInactive).
			Padding(1, 3)

	videoStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorViolet).
			Foreground(colorViolet).
			Align(lipgloss.Center, lipgloss.Center)
)
