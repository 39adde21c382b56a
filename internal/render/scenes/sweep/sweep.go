// Package sweep holds calibration patterns for checking a freshly wired
// board: which physical LED answers to which logical slot, and whether the
// color channels are in the right order.
package sweep

import (
	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/model"
)

type Kind string

const (
	IndexSweep  Kind = "index_sweep"  // one white slot walking the chain
	RGBTest     Kind = "rgb_channels" // whole buffer red, green, blue
	SegmentWalk Kind = "segment_walk" // one strip segment cyan at a time
)

// Plan picks the pattern and how many frames each step holds.
type Plan struct {
	Kind Kind `yaml:"kind"`
	Hold int  `yaml:"hold"`
	// Order is the slot sequence IndexSweep walks; usually the chain order
	// so the lit LED travels along the wire. Empty means 0..n-1.
	Order []int `yaml:"order,omitempty"`
}

type Sweep struct {
	name string
	plan Plan
}

func New(name string, plan Plan) *Sweep {
	if plan.Hold <= 0 {
		plan.Hold = 1
	}
	return &Sweep{name: name, plan: plan}
}

func (s *Sweep) Name() string { return s.name }
func (s *Sweep) Kind() Kind   { return s.plan.Kind }

// Step is the pattern step shown at frame.
func (s *Sweep) Step(frame uint32) int {
	return int(frame / uint32(s.plan.Hold))
}

// Render clears dst and lights the current step. Patterns loop forever.
func (s *Sweep) Render(dst model.Buffer, frame uint32, in input.Snapshot) {
	dst.Clear()
	n := len(dst)
	if n == 0 {
		return
	}
	step := s.Step(frame)

	switch s.plan.Kind {
	case IndexSweep:
		idx := step % n
		if len(s.plan.Order) > 0 {
			idx = s.plan.Order[step%len(s.plan.Order)]
		}
		if idx >= 0 && idx < n {
			dst[idx] = model.NewRGB(255, 255, 255)
		}
	case RGBTest:
		var c model.RGB
		switch step % 3 {
		case 0:
			c.R = 255
		case 1:
			c.G = 255
		case 2:
			c.B = 255
		}
		dst.Fill(c)
	case SegmentWalk:
		seg := step % model.SegmentCount
		for i := seg * model.SegmentLength; i < (seg+1)*model.SegmentLength && i < n; i++ {
			dst[i] = model.NewRGB(0, 255, 255)
		}
	}
}
