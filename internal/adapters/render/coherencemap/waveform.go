package coherencemap

import (
	"math"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/domain/coherence"
	"github.com/okian/fracture/internal/domain/model"
)

const (
	waveCount  = 7
	waveGrowth = 2.0
	waveStep   = 4.0
	barX       = 50.0
	barY       = 370.0
	barWidth   = 300.0
)

type wave struct {
	id      int
	freq    float64
	amp     float64
	phase   float64
	yOffset float64
	tone    render.Tone
}

// Waveform is a stack of waves that fall into step as stability grows,
// with a coherence bar underneath.
type Waveform struct {
	waves []wave
}

// NewWaveform builds the seven waves.
func NewWaveform() *Waveform {
	w := &Waveform{}
	for i := range waveCount {
		tone := render.ToneViolet
		if i%2 == 1 {
			tone = render.ToneDeepViolet
		}
		w.waves = append(w.waves, wave{
			id:      i,
			freq:    0.5 + float64(i)*0.15,
			amp:     30 + float64(i)*5,
			phase:   float64(i) * 0.7,
			yOffset: 80 + float64(i)*40,
			tone:    tone,
		})
	}
	return w
}

// Variant implements Renderer.
func (w *Waveform) Variant() model.CoherenceVariant { return model.CoherenceWaveform }

// Y returns the height of wave i at x.
func (w *Waveform) Y(i int, x, stability, t float64) float64 {
	wv := w.waves[i]
	chaos := 1 - stability
	id := float64(wv.id)
	noise := math.Sin(x*0.05+t*2.3+id)*20*chaos +
		math.Sin(x*0.08+t*1.7-id*0.5)*15*chaos +
		math.Sin(x*0.12+t*3.1)*10*chaos
	return wv.yOffset + w.sync(wv, x, t) + noise
}

func (w *Waveform) sync(wv wave, x, t float64) float64 {
	return math.Sin(x*0.02*wv.freq+t+wv.phase) * wv.amp
}

// Draw implements Renderer.
func (w *Waveform) Draw(c *render.Canvas, st State) {
	p := newPen(c)
	s := st.Stability
	t := st.Elapsed.Seconds()

	for _, y := range []float64{100, 150, 200, 250, 300} {
		p.line(0, y, Size, y, '╌', render.ToneInactive, 0.1)
	}
	for i, wv := range w.waves {
		gate := coherence.Activation(i, len(w.waves), s, waveGrowth)
		tone, glyph, alpha := render.ToneInactive, '·', 0.15
		if gate.Active {
			tone, glyph, alpha = wv.tone, '~', 0.3+gate.Intensity*0.5
		}
		px, py := 0.0, w.Y(i, 0, s, t)
		for x := waveStep; x <= Size; x += waveStep {
			y := w.Y(i, x, s, t)
			p.line(px, py, x, y, glyph, tone, alpha)
			px, py = x, y
		}
	}

	for _, sig := range st.Signatures {
		wv := w.waves[min(int(sig.Y*float64(len(w.waves))), len(w.waves)-1)]
		x := sig.X * Size
		y := wv.yOffset + w.sync(wv, x, t)*s + (1-s)*(sig.Y*100-50)
		p.mark(x, y, sig, render.ToneCyan)
	}

	x0, y := p.cell(barX, barY)
	x1, _ := p.cell(barX+barWidth, barY)
	fill := x0 + int(math.Round(float64(x1-x0)*s))
	for x := x0; x < x1; x++ {
		if x < fill {
			c.Set(x, y, '█', render.ToneViolet, 0.8)
			continue
		}
		c.Set(x, y, '░', render.ToneInactive, 0.5)
	}
}
