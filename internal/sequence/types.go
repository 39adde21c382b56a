package sequence

import (
	"sync"

	"github.com/coreman2200/turbolights/internal/input"
)

// Keyframe is a value at time T (seconds) with the easing used for the
// segment that starts at it.
type Keyframe struct {
	T    float64 `yaml:"t"`
	V    float64 `yaml:"v"`
	Ease string  `yaml:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a sorted list of keyframes; Eval(t) interpolates a value.
type Envelope struct {
	Keys []Keyframe `yaml:"keys"`
}

// Clip is one stretch of scripted input: which effect runs, which buttons
// are held and how fast each knob spins (ticks per second) over the clip.
type Clip struct {
	Name      string                      `yaml:"name"`
	Effect    string                      `yaml:"effect,omitempty"`
	DurationS float64                     `yaml:"duration_s"`
	Buttons   []int                       `yaml:"buttons,omitempty"`
	Spin      [input.NumEncoders]Envelope `yaml:"spin,omitempty"`
}

// Program is a full script of clips.
type Program struct {
	Version string `yaml:"version"` // e.g., "input.v1"
	Loop    bool   `yaml:"loop,omitempty"`
	Clips   []Clip `yaml:"clips"`
}

// PlayerState enumerates player states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are callbacks into the render engine.
type Hooks struct {
	// SetEffect switches the active effect at a clip boundary.
	SetEffect func(name string)
}

// Player walks a Program and reports the scripted input as an input.Source.
// Encoder counters only ever move by whole ticks; the fractional remainder
// carries over to the next Tick.
type Player struct {
	mu    sync.Mutex
	State PlayerState

	prog Program
	nowS float64 // position within program
	idx  int     // current clip index

	buttons  uint16
	counters [input.NumEncoders]uint32
	frac     [input.NumEncoders]float64

	hooks Hooks
}
