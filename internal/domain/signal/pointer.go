package signal

// PointerLerp is the fraction of the distance covered per frame.
const PointerLerp = 0.05

// Pointer follows the mouse with a lag. Coordinates are normalized to [0,1].
type Pointer struct {
	X, Y             float64
	targetX, targetY float64
}

// NewPointer creates a pointer resting at the centre.
func NewPointer() *Pointer {
	return &Pointer{X: 0.5, Y: 0.5, targetX: 0.5, targetY: 0.5}
}

// Target sets where the pointer is heading.
func (p *Pointer) Target(x, y float64) {
	p.targetX = clamp01(x)
	p.targetY = clamp01(y)
}

// Step moves the pointer one frame toward its target.
func (p *Pointer) Step() {
	p.X += (p.targetX - p.X) * PointerLerp
	p.Y += (p.targetY - p.Y) * PointerLerp
}
