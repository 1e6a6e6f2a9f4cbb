// Package field draws the fractured signal as a character-cell field: a
// per-variant texture warped by fractal noise, torn by glitch bands and
// lit by a pulse, flicker, scanlines and a vignette.
package field

import (
	"embed"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ojrac/opensimplex-go"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/domain/model"
	"github.com/okian/fracture/internal/domain/signal"
)

//go:embed textures/*.txt
var textureFS embed.FS

// ramp matches render.Shade so textures can be authored with the same glyphs.
const ramp = " .·:;+*%#@"

const (
	octaves        = 3
	persistence    = 0.5
	noiseFrequency = 3.0
	bandCount      = 24
	backgroundDim  = 0.45
	chromaReach    = 6.0
	edgeThreshold  = 0.2
	brightCutoff   = 0.75
	parallax       = 0.04
)

// Texture is a luminance mask in [0,1], addressed as rows of columns.
type Texture struct {
	W, H int
	lum  []float64
}

// LoadTexture reads the embedded texture with the given logical name.
func LoadTexture(name string) (*Texture, error) {
	raw, err := textureFS.ReadFile("textures/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", name, err)
	}
	return ParseTexture(string(raw)), nil
}

// ParseTexture turns ramp glyphs into luminance. Unknown glyphs are dark.
func ParseTexture(s string) *Texture {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	t := &Texture{H: len(lines)}
	for _, l := range lines {
		t.W = max(t.W, len([]rune(l)))
	}
	t.lum = make([]float64, t.W*t.H)
	steps := float64(len([]rune(ramp)) - 1)
	for y, l := range lines {
		for x, r := range []rune(l) {
			if i := strings.IndexRune(ramp, r); i > 0 {
				t.lum[y*t.W+x] = float64(len([]rune(ramp[:i]))) / steps
			}
		}
	}
	return t
}

// Sample returns the luminance at normalized (u, v). Outside [0,1] is dark.
func (t *Texture) Sample(u, v float64) float64 {
	if t == nil || t.W == 0 || t.H == 0 || u < 0 || v < 0 || u >= 1 || v >= 1 {
		return 0
	}
	return t.lum[int(v*float64(t.H))*t.W+int(u*float64(t.W))]
}

// Field animates one signal variant.
type Field struct {
	noise   opensimplex.Noise
	seed    int64
	variant model.SignalVariant
	texture *Texture
	elapsed time.Duration
	loaded  bool

	pointerX, pointerY float64
}

// New creates a field showing v. seed fixes the noise pattern.
func New(seed int64, v model.SignalVariant) *Field {
	f := &Field{seed: seed, pointerX: 0.5, pointerY: 0.5}
	f.SetVariant(v)
	return f
}

// SetVariant switches the texture. A different variant restarts the
// animation with a fresh noise field.
func (f *Field) SetVariant(v model.SignalVariant) {
	if f.loaded && v == f.variant {
		return
	}
	f.variant = v
	f.elapsed = 0
	f.noise = opensimplex.New(f.seed)
	f.texture, _ = LoadTexture(string(v)) // a missing asset draws nothing
	f.loaded = true
}

// Variant returns the variant on display.
func (f *Field) Variant() model.SignalVariant { return f.variant }

// Elapsed returns the animation time.
func (f *Field) Elapsed() time.Duration { return f.elapsed }

// HasTexture reports whether the variant's asset was found.
func (f *Field) HasTexture() bool { return f.texture != nil }

// SetPointer shifts the field slightly toward a normalized pointer position.
func (f *Field) SetPointer(x, y float64) {
	f.pointerX, f.pointerY = x, y
}

// Step moves the animation forward.
func (f *Field) Step(d time.Duration) {
	if d > 0 {
		f.elapsed += d
	}
}

// Draw renders fr onto c. The background layer goes first, then the main one.
func (f *Field) Draw(c *render.Canvas, fr signal.Frame) {
	if f.texture == nil || !fr.Visible() || c.W == 0 || c.H == 0 {
		return
	}
	scale := max(fr.Scale, 1)
	main := fr.Uniforms()
	back := signal.BackgroundLayer(main)
	f.layer(c, back, scale*signal.BackgroundScale, fr.Intensity*backgroundDim, 1)
	f.layer(c, main, scale, fr.Intensity, 0)
}

func (f *Field) layer(c *render.Canvas, p signal.Preset, scale, intensity float64, offset float64) {
	t := f.elapsed.Seconds()
	pulse := 1 + p.PulseIntensity*math.Sin(t*p.PulseSpeed*2*math.Pi)*0.5
	flicker := 1 - 0.08*(0.5+0.5*math.Sin(t*p.Flicker*2*math.Pi))
	frame := math.Floor(t * p.Flicker)

	for y := 0; y < c.H; y++ {
		v := (float64(y) + 0.5) / float64(c.H)
		band := math.Floor(v * bandCount)
		shift := 0.0
		if n := f.noise.Eval3(band, frame, offset+7); (n+1)/2 > 1-p.GlitchAmount*0.25 {
			shift = f.noise.Eval2(band, frame) * p.GlitchAmount * 0.15
		}
		scan := 1.0
		if y%2 == 1 {
			scan -= p.Scanline
		}
		for x := 0; x < c.W; x++ {
			u := (float64(x) + 0.5) / float64(c.W)
			du := (u-0.5)/scale - (f.pointerX-0.5)*parallax*(1+offset)
			dv := (v-0.5)/scale - (f.pointerY-0.5)*parallax*(1+offset)
			warp := f.fbm(du*noiseFrequency+offset, dv*noiseFrequency, t*p.FlowSpeed)
			su := du + 0.5 + warp*p.Distortion + shift
			sv := dv + 0.5 + f.fbm(du*noiseFrequency, dv*noiseFrequency+offset, t*p.FlowSpeed+3)*p.Distortion

			vignette := 1 - math.Hypot(u-0.5, v-0.5)*1.2
			lum := f.texture.Sample(su, sv) * pulse * flicker * scan * max(vignette, 0) * intensity
			if lum <= 0.02 {
				continue
			}

			tone := render.ToneViolet
			reach := p.Chromatic * chromaReach
			switch {
			case f.texture.Sample(su+reach, sv)*intensity-lum > edgeThreshold:
				tone = render.ToneRed
			case f.texture.Sample(su-reach, sv)*intensity-lum > edgeThreshold:
				tone = render.ToneCyan
			case lum > brightCutoff:
				tone = render.ToneGold
			case offset > 0:
				tone = render.ToneDeepViolet
			}
			c.Blend(x, y, render.Shade(lum), tone, lum)
		}
	}
}

func (f *Field) fbm(x, y, z float64) float64 {
	total, amp, freq, norm := 0.0, 1.0, 1.0, 0.0
	for range octaves {
		total += f.noise.Eval3(x*freq, y*freq, z) * amp
		norm += amp
		amp *= persistence
		freq *= 2
	}
	return total / norm
}
