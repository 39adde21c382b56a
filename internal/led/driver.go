package led

import (
	"errors"

	"github.com/coreman2200/turbolights/model"
)

// ErrClosed is returned when writing to a driver after Close.
var ErrClosed = errors.New("led: driver closed")

// Sink receives one packed r,g,b word per pixel, in chain order. Writes are
// fire-and-forget; the sink never acknowledges.
type Sink interface {
	PutPixel(word uint32)
}

type SinkFunc func(word uint32)

func (f SinkFunc) PutPixel(word uint32) { f(word) }

// Flusher is implemented by sinks that batch a frame before sending it.
type Flusher interface {
	Flush() error
}

// Driver abstracts a frame transport.
type Driver interface {
	// Write pushes a frame of pixels to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Emit streams buf to s following order, which lists logical indices in
// physical chain order. It returns the number of pixel writes.
func Emit(s Sink, buf model.Buffer, order []int) int {
	n := 0
	for _, i := range order {
		if i < 0 || i >= len(buf) {
			continue
		}
		s.PutPixel(buf[i].Pack())
		n++
	}
	return n
}

// Frame is a Sink that collects a frame of words and hands the rgb bytes to
// a Driver on Flush.
type Frame struct {
	Drv Driver
	rgb []byte
}

func NewFrame(drv Driver, pixels int) *Frame {
	return &Frame{Drv: drv, rgb: make([]byte, 0, pixels*3)}
}

func (f *Frame) PutPixel(word uint32) {
	c := model.Unpack(word)
	f.rgb = append(f.rgb, c.R, c.G, c.B)
}

// Pending is the number of pixels collected since the last Flush.
func (f *Frame) Pending() int { return len(f.rgb) / 3 }

func (f *Frame) Flush() error {
	defer func() { f.rgb = f.rgb[:0] }()
	if f.Drv == nil || len(f.rgb) == 0 {
		return nil
	}
	return f.Drv.Write(f.rgb)
}

// Tee fans every frame out to several drivers. The first error wins but every
// driver still gets the frame.
type Tee []Driver

func (t Tee) Write(rgb []byte) error {
	var first error
	for _, d := range t {
		if d == nil {
			continue
		}
		if err := d.Write(rgb); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t Tee) Close() error {
	var first error
	for _, d := range t {
		if d == nil {
			continue
		}
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
