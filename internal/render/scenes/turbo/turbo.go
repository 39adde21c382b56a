// Package turbo is the "turbocharger" chasing-light effect: each knob drives
// a lit blob around the strip while it turns, and the blob fades out and
// returns home once the knob rests.
//
// Every frame, per knob:
//   - add the tick delta (in revolutions) to an accumulator, clamped to a
//     maximum speed
//   - past the threshold either way, move the blob at a constant speed at full
//     brightness
//   - otherwise count idle frames: fade for a few, then snap home
//   - decay the accumulator toward zero
//
// The default tuning targets a 200 Hz frame rate: 0.1 revolution to start
// moving, 0.75 s for a blob to lap the strip, 0.5 s of coasting after the knob
// stops and 0.2 s more to fade out.
package turbo

import (
	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/model"
)

// fadeFloor absorbs float residue so repeated fade steps land on 0.
const fadeFloor = 1e-4

// Overlay paints fixed slots in a fixed color while its button is held.
type Overlay struct {
	Bit   int       `yaml:"bit"`
	Slots []int     `yaml:"slots"`
	Color model.RGB `yaml:"color"`
}

// Overlay and blob colors of the stock controller.
var (
	Amber = model.RGB{R: 62, G: 100, B: 0}
	Red   = model.RGB{R: 255, G: 15, B: 15}
	Gold  = model.RGB{R: 255, G: 230, B: 0}
	Teal  = model.RGB{R: 70, G: 230, B: 250}
	Coral = model.RGB{R: 250, G: 60, B: 200}
)

// Tuning holds every constant of the effect.
type Tuning struct {
	PulsesPerRev float32 `yaml:"pulses_per_rev"`
	Clamp        float32 `yaml:"clamp"`
	Threshold    float32 `yaml:"threshold"`
	Decay        float32 `yaml:"decay"`
	Velocity     float32 `yaml:"velocity"`
	FadeFrames   int     `yaml:"fade_frames"`
	FadeStep     float32 `yaml:"fade_step"`
	// StripEnd is the far end of the blob coordinate space; positions wrap
	// over [0, StripEnd] and both ends are seam slots.
	StripEnd      float32 `yaml:"strip_end"`
	Radius        float32 `yaml:"radius"`
	SegmentLength int     `yaml:"segment_length"`

	Reverse [input.NumEncoders]bool      `yaml:"reverse"`
	Home    [input.NumEncoders]float32   `yaml:"home"`
	Colors  [input.NumEncoders]model.RGB `yaml:"colors"`

	Overlays []Overlay `yaml:"overlays"`
}

// DefaultOverlays light the slots next to each switch: amber for the four
// main buttons and the left FX, red for BT-D and the right FX, gold for start.
func DefaultOverlays() []Overlay {
	return []Overlay{
		{Bit: input.FXL, Slots: []int{1, 0}, Color: Amber},
		{Bit: input.BtnC, Slots: []int{2, 3}, Color: Amber},
		{Bit: input.BtnB, Slots: []int{4, 5}, Color: Amber},
		{Bit: input.BtnA, Slots: []int{6, 7}, Color: Amber},
		{Bit: input.BtnD, Slots: []int{8, 9}, Color: Red},
		{Bit: input.FXR, Slots: []int{12, 13}, Color: Red},
		{Bit: input.Start, Slots: []int{16, 15}, Color: Gold},
	}
}

// DefaultTuning is the stock tuning for a 200 Hz frame rate.
func DefaultTuning() Tuning {
	return Tuning{
		PulsesPerRev:  24 * 4,
		Clamp:         0.1,
		Threshold:     0.05,
		Decay:         0.0047,
		Velocity:      0.5,
		FadeFrames:    5,
		FadeStep:      0.2,
		StripEnd:      7,
		Radius:        2,
		SegmentLength: model.SegmentLength,
		Home:          [input.NumEncoders]float32{0, 7},
		Colors:        [input.NumEncoders]model.RGB{Teal, Coral},
		Overlays:      DefaultOverlays(),
	}
}

// EncoderState is the per-knob animation state. It lives as long as the
// effect does.
type EncoderState struct {
	Prev       uint32  // raw counter seen last frame
	Accum      float32 // revolutions, clamped and decaying
	Pos        float32 // blob position in strip units
	Brightness float32 // 0..1
	Idle       int     // frames since the knob last crossed the threshold
}

// Turbo is the chase effect; State is exported for inspection.
type Turbo struct {
	name  string
	T     Tuning
	State [input.NumEncoders]EncoderState
}

// New returns a Turbo with both blobs parked at home.
func New(name string, t Tuning) *Turbo {
	tb := &Turbo{name: name, T: t}
	tb.Reset()
	return tb
}

func (tb *Turbo) Name() string { return tb.name }

// Reset puts both blobs at home, dark, with the knobs at rest.
func (tb *Turbo) Reset() {
	for e := range tb.State {
		tb.State[e] = EncoderState{Pos: tb.T.Home[e]}
	}
}

func (tb *Turbo) Render(dst model.Buffer, frame uint32, in input.Snapshot) {
	tb.Update(in)
	tb.Draw(dst, in)
}

// Update advances every knob's state by one frame.
func (tb *Turbo) Update(in input.Snapshot) {
	for e := range tb.State {
		tb.step(e, in.Encoders[e])
	}
}

func (tb *Turbo) step(e int, raw uint32) {
	t := &tb.T
	s := &tb.State[e]

	d := input.Delta(s.Prev, raw)
	if !t.Reverse[e] {
		d = -d
	}
	s.Prev = raw

	if t.PulsesPerRev > 0 {
		s.Accum += float32(d) / t.PulsesPerRev
	}
	s.Accum = clamp(s.Accum, -t.Clamp, t.Clamp)

	switch {
	case s.Accum < -t.Threshold:
		s.Idle = 0
		s.Pos -= t.Velocity
		s.Brightness = 1
	case s.Accum > t.Threshold:
		s.Idle = 0
		s.Pos += t.Velocity
		s.Brightness = 1
	default:
		if s.Idle <= t.FadeFrames {
			s.Idle++
		}
		if s.Idle > t.FadeFrames {
			s.Pos = t.Home[e]
			s.Brightness = 0
		} else {
			s.Brightness = fade(s.Brightness - t.FadeStep)
		}
	}

	s.Pos = Wrap(s.Pos, t.StripEnd)
	s.Accum = Decay(s.Accum, t.Decay)
}

// Draw blends every blob over one segment, copies it to each segment, then
// paints the overlays of held buttons on top.
func (tb *Turbo) Draw(dst model.Buffer, in input.Snapshot) {
	t := &tb.T
	for i := 0; i < t.SegmentLength; i++ {
		var r, g, b float32
		for e := range tb.State {
			k := Intensity(tb.State[e].Pos, float32(i), t.Radius) * tb.State[e].Brightness
			c := t.Colors[e]
			r += k * float32(c.R)
			g += k * float32(c.G)
			b += k * float32(c.B)
		}
		px := model.RGB{
			R: model.ClampByte(int(r)),
			G: model.ClampByte(int(g)),
			B: model.ClampByte(int(b)),
		}
		dst.SetStride(i, t.SegmentLength, px)
	}

	for _, o := range t.Overlays {
		if !in.Held(o.Bit) {
			continue
		}
		for _, slot := range o.Slots {
			if slot >= 0 && slot < len(dst) {
				dst[slot] = o.Color
			}
		}
	}
}

// Intensity is a linear falloff from 1 at the blob center to 0 at radius.
func Intensity(pos, at, radius float32) float32 {
	if radius <= 0 {
		if pos == at {
			return 1
		}
		return 0
	}
	return 1 - clamp(abs(pos-at), 0, radius)/radius
}

// Wrap folds p back into [0, span] from whichever side it left. It only
// corrects by one span, which covers any single move.
func Wrap(p, span float32) float32 {
	if span <= 0 {
		return p
	}
	if p < 0 {
		p += span
	}
	if p > span {
		p -= span
	}
	return p
}

// Decay moves a toward zero by step without crossing it.
func Decay(a, step float32) float32 {
	switch {
	case a < -step:
		return a + step
	case a > step:
		return a - step
	default:
		return 0
	}
}

func fade(b float32) float32 {
	if b < fadeFloor {
		return 0
	}
	if b > 1 {
		return 1
	}
	return b
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
