package colorcycle

import (
	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/model"
)

// Wheel geometry: 768 steps split in three 256-wide bands, eight zones spaced
// evenly around it. At 200 Hz the forward spin takes ~1.9 s per turn.
const (
	WheelSteps = 768
	BandWidth  = 256
	Zones      = 8
	ZoneOffset = WheelSteps / Zones
)

// Tuning holds the spin rates and output scale.
type Tuning struct {
	ForwardStep  int     `yaml:"forward_step"`
	ReverseStep  int     `yaml:"reverse_step"`
	DirectionBit int     `yaml:"direction_bit"`
	Scale        float32 `yaml:"scale"`
}

// DefaultTuning spins forward 2 units/frame, and 10x faster backward while
// the start button is held. Output is halved.
func DefaultTuning() Tuning {
	return Tuning{
		ForwardStep:  2,
		ReverseStep:  -20,
		DirectionBit: input.Start,
		Scale:        0.5,
	}
}

// Cycle is a stateless rainbow: zone i sits at wheel position
// step*frame + i*96, replicated every Zones slots across the buffer.
type Cycle struct {
	name string
	T    Tuning
}

func New(name string, t Tuning) *Cycle {
	return &Cycle{name: name, T: t}
}

func (c *Cycle) Name() string { return c.name }

func (c *Cycle) Render(dst model.Buffer, frame uint32, in input.Snapshot) {
	step := c.T.ForwardStep
	if in.Held(c.T.DirectionBit) {
		step = c.T.ReverseStep
	}
	for i := 0; i < Zones; i++ {
		pos := WheelPosition(step, frame, i)
		dst.SetStride(i, Zones, Wheel(pos, c.T.Scale))
	}
}

// WheelPosition returns (step*frame + zone*ZoneOffset) mod WheelSteps,
// normalized into [0, WheelSteps).
func WheelPosition(step int, frame uint32, zone int) int {
	p := (int64(step)*int64(frame) + int64(zone*ZoneOffset)) % WheelSteps
	if p < 0 {
		p += WheelSteps
	}
	return int(p)
}

// Wheel maps a wheel position to a color: red rises as green falls, then blue
// takes over from red, then green from blue. Positions outside the wheel are
// normalized first.
func Wheel(pos int, scale float32) model.RGB {
	pos %= WheelSteps
	if pos < 0 {
		pos += WheelSteps
	}
	var c model.RGB
	switch {
	case pos < BandWidth:
		c = model.RGB{R: uint8(pos), G: uint8(255 - pos)}
	case pos < 2*BandWidth:
		pos -= BandWidth
		c = model.RGB{R: uint8(255 - pos), B: uint8(pos)}
	default:
		pos -= 2 * BandWidth
		c = model.RGB{G: uint8(pos), B: uint8(255 - pos)}
	}
	return c.Scale(scale)
}
