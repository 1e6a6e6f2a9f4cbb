// Package render provides the character-cell canvas every visual draws on.
// Cells carry a palette tone and an alpha; the terminal layer turns them
// into colors.
package render

import (
	"math"
	"strings"
)

// Tone is a palette entry from the design tokens.
type Tone uint8

// Palette tones.
const (
	ToneNone Tone = iota
	ToneVoid
	ToneAbyss
	ToneViolet
	ToneDeepViolet
	ToneGold
	ToneCyan
	ToneWhite
	ToneRed
	ToneInactive
)

// CellAspect is how many columns make up one row's height on screen.
const CellAspect = 2.0

// shades orders glyphs from faint to dense.
var shades = []rune(" .·:;+*%#@") //nolint:gochecknoglobals // glyph ramp

// Cell is one terminal cell.
type Cell struct {
	Rune  rune
	Tone  Tone
	Alpha float64
}

// Canvas is a fixed-size grid of cells.
type Canvas struct {
	W, H  int
	cells []Cell
}

// NewCanvas allocates a blank w×h canvas. Negative sizes become zero.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{W: w, H: h, cells: make([]Cell, w*h)}
	c.Clear()
	return c
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' '}
	}
}

// In reports whether (x, y) is on the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.W && y < c.H
}

// At returns the cell at (x, y), or a blank cell off-canvas.
func (c *Canvas) At(x, y int) Cell {
	if !c.In(x, y) {
		return Cell{Rune: ' '}
	}
	return c.cells[y*c.W+x]
}

// Set overwrites a cell. Off-canvas writes are dropped.
func (c *Canvas) Set(x, y int, r rune, tone Tone, alpha float64) {
	if !c.In(x, y) {
		return
	}
	c.cells[y*c.W+x] = Cell{Rune: r, Tone: tone, Alpha: clamp01(alpha)}
}

// Blend writes a cell only when it is at least as opaque as what is there.
func (c *Canvas) Blend(x, y int, r rune, tone Tone, alpha float64) {
	if !c.In(x, y) || alpha <= 0 {
		return
	}
	if cur := c.cells[y*c.W+x]; cur.Rune != ' ' && cur.Alpha > alpha {
		return
	}
	c.Set(x, y, r, tone, alpha)
}

// Line draws a line between two cell positions.
func (c *Canvas) Line(x0, y0, x1, y1 int, r rune, tone Tone, alpha float64) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Blend(x0, y0, r, tone, alpha)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Ring draws a circle outline of radius r rows, stretched horizontally so it
// looks round in a terminal.
func (c *Canvas) Ring(cx, cy, radius float64, r rune, tone Tone, alpha float64) {
	if radius <= 0 {
		c.Blend(int(math.Round(cx)), int(math.Round(cy)), r, tone, alpha)
		return
	}
	steps := int(math.Max(12, 2*math.Pi*radius*CellAspect))
	steps = (steps + 3) / 4 * 4 // hit the four extremes exactly
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cx + math.Cos(a)*radius*CellAspect))
		y := int(math.Round(cy + math.Sin(a)*radius))
		c.Blend(x, y, r, tone, alpha)
	}
}

// Circle draws a filled disc.
func (c *Canvas) Circle(cx, cy, radius float64, r rune, tone Tone, alpha float64) {
	minY, maxY := int(math.Floor(cy-radius)), int(math.Ceil(cy+radius))
	for y := minY; y <= maxY; y++ {
		dy := float64(y) - cy
		if dy*dy > radius*radius {
			continue
		}
		half := math.Sqrt(radius*radius-dy*dy) * CellAspect
		for x := int(math.Ceil(cx - half)); x <= int(math.Floor(cx+half)); x++ {
			c.Blend(x, y, r, tone, alpha)
		}
	}
}

// Text writes s starting at (x, y).
func (c *Canvas) Text(x, y int, s string, tone Tone, alpha float64) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, tone, alpha)
	}
}

// TextCentered writes s centred on row y.
func (c *Canvas) TextCentered(y int, s string, tone Tone, alpha float64) {
	c.Text((c.W-len([]rune(s)))/2, y, s, tone, alpha)
}

// Rows returns the canvas as plain text, one string per row.
func (c *Canvas) Rows() []string {
	rows := make([]string, c.H)
	var b strings.Builder
	for y := 0; y < c.H; y++ {
		b.Reset()
		for x := 0; x < c.W; x++ {
			b.WriteRune(c.cells[y*c.W+x].Rune)
		}
		rows[y] = b.String()
	}
	return rows
}

// String joins Rows with newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Rows(), "\n")
}

// Shade picks a glyph whose density matches v in [0,1].
func Shade(v float64) rune {
	v = clamp01(v)
	return shades[int(math.Round(v*float64(len(shades)-1)))]
}

// Project maps a point in a logical w×h space onto the canvas, keeping the
// aspect ratio and centring it.
func (c *Canvas) Project(x, y, w, h float64) (float64, float64) {
	scale := c.Unit(w, h)
	ox := (float64(c.W) - w*scale*CellAspect) / 2
	oy := (float64(c.H) - h*scale) / 2
	return ox + x*scale*CellAspect, oy + y*scale
}

// Unit is the number of rows per logical unit when a w×h space is projected.
func (c *Canvas) Unit(w, h float64) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	return math.Min(float64(c.W)/(w*CellAspect), float64(c.H)/h)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
