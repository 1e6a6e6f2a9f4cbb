package coherencemap

import (
	"math"
	"math/rand"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/domain/coherence"
	"github.com/okian/fracture/internal/domain/model"
)

const (
	neuralNodes       = 30
	neuralReach       = 80.0
	neuralMaxLinks    = 4
	nodeThresholdSpan = 0.8
	nodeGrowth        = 3.0
	linkGrowth        = 4.0
)

// Node is one neuron of the neural map.
type Node struct {
	Point
	Size  float64
	Links []int // indices of later nodes this one connects to
}

// Neural is a network of nodes whose synapses fire as stability grows.
type Neural struct {
	nodes []Node
}

// NewNeural lays out the network. The same seed gives the same network.
func NewNeural(seed int64) *Neural {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // layout only
	n := &Neural{nodes: make([]Node, neuralNodes)}
	for i := range n.nodes {
		a := float64(i)/neuralNodes*2*math.Pi + rng.Float64()*0.5
		r := 50 + rng.Float64()*130
		n.nodes[i] = Node{
			Point: Point{center + math.Cos(a)*r, center + math.Sin(a)*r},
			Size:  3 + rng.Float64()*4,
		}
	}
	for i := range n.nodes {
		for j := i + 1; j < len(n.nodes); j++ {
			a, b := n.nodes[i], n.nodes[j]
			if math.Hypot(a.X-b.X, a.Y-b.Y) < neuralReach && len(n.nodes[i].Links) < neuralMaxLinks {
				n.nodes[i].Links = append(n.nodes[i].Links, j)
			}
		}
	}
	return n
}

// Variant implements Renderer.
func (n *Neural) Variant() model.CoherenceVariant { return model.CoherenceNeural }

// Nodes returns the network.
func (n *Neural) Nodes() []Node { return n.nodes }

// Draw implements Renderer.
func (n *Neural) Draw(c *render.Canvas, st State) {
	p := newPen(c)
	s := st.Stability
	count := float64(len(n.nodes))

	p.disc(center, center, 10+s*20, '░', render.ToneDeepViolet, 0.2+s*0.4)
	for i, node := range n.nodes {
		for _, j := range node.Links {
			to := n.nodes[j]
			gate := coherence.ActivationAt(float64(i+j)/(count*2), s, linkGrowth)
			if gate.Active {
				p.line(node.X, node.Y, to.X, to.Y, '·', render.ToneViolet, 0.2+gate.Intensity*0.6)
				continue
			}
			p.line(node.X, node.Y, to.X, to.Y, '.', render.ToneInactive, 0.05)
		}
	}
	for i, node := range n.nodes {
		gate := coherence.ActivationAt(float64(i)/count*nodeThresholdSpan, s, nodeGrowth)
		x, y := p.cell(node.X, node.Y)
		if gate.Active {
			c.Set(x, y, '◉', render.ToneViolet, 0.5+gate.Intensity*0.5)
			continue
		}
		c.Set(x, y, '○', render.ToneInactive, 0.2)
	}

	for _, sig := range st.Signatures {
		p.mark(sig.X*Size, sig.Y*Size, sig, render.ToneCyan)
	}
}
