package model

// Board geometry. The chain has one zone of 32 addressable slots, laid out
// as four strip segments of eight positions that share one coordinate space.
const (
	LedZones      = 1
	LedsPerZone   = 32
	LedCount      = LedZones * LedsPerZone
	SegmentLength = 8
	SegmentCount  = LedCount / SegmentLength
)

// Buffer is the logical color state of every LED, indexed by logical id.
// Exactly one effect writes it per frame.
type Buffer []RGB

func NewBuffer(n int) Buffer {
	if n < 0 {
		n = 0
	}
	return make(Buffer, n)
}

func (b Buffer) Clear() {
	b.Fill(RGB{})
}

func (b Buffer) Fill(c RGB) {
	for i := range b {
		b[i] = c
	}
}

// SetStride writes c at start, start+stride, ... up to the end of the buffer.
func (b Buffer) SetStride(start, stride int, c RGB) {
	if stride <= 0 {
		return
	}
	for i := start; i >= 0 && i < len(b); i += stride {
		b[i] = c
	}
}

// Bytes flattens the buffer to an r,g,b stream in logical order.
func (b Buffer) Bytes() []byte {
	out := make([]byte, 0, len(b)*3)
	for _, c := range b {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}

func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}
