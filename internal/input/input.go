package input

// Button bits of the report bitmask, in switch order.
const (
	BtnA   = 0
	BtnB   = 1
	BtnC   = 2
	BtnD   = 3
	FXL    = 4
	FXR    = 5
	Aux1   = 6
	Aux2   = 7
	Start  = 8 // combined/mode bit
	NumBtn = 9
)

// Encoders on the board: 0 is the left knob, 1 the right one.
const (
	Left        = 0
	Right       = 1
	NumEncoders = 2
)

// Snapshot is one frame's worth of input as delivered by the switch and
// encoder scanner.
type Snapshot struct {
	Buttons  uint16
	Encoders [NumEncoders]uint32
}

func (s Snapshot) Held(bit int) bool {
	if bit < 0 || bit > 15 {
		return false
	}
	return (s.Buttons>>uint(bit))&1 == 1
}

// Press returns a copy with bit set.
func (s Snapshot) Press(bits ...int) Snapshot {
	for _, b := range bits {
		if b >= 0 && b < 16 {
			s.Buttons |= 1 << uint(b)
		}
	}
	return s
}

// Turn returns a copy with encoder e advanced by ticks (negative turns back).
func (s Snapshot) Turn(e int, ticks int32) Snapshot {
	if e >= 0 && e < NumEncoders {
		s.Encoders[e] += uint32(ticks)
	}
	return s
}

// Delta is the signed tick difference between two raw counter readings.
// Counters wrap at 32 bits; the difference stays correct across the wrap.
func Delta(prev, cur uint32) int32 {
	return int32(cur - prev)
}

// Source yields the input for the next frame.
type Source interface {
	Sample() Snapshot
}

type SourceFunc func() Snapshot

func (f SourceFunc) Sample() Snapshot { return f() }

// Static always reports the same snapshot.
type Static Snapshot

func (s Static) Sample() Snapshot { return Snapshot(s) }
