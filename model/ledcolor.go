package model

import (
	"image/color"
)

// Bit offsets of each channel inside a packed pixel word. The LED sink takes
// r, g, b packed high to low.
const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

// RGB is one addressable LED's unscaled color.
type RGB struct {
	R, G, B uint8
}

func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & (mask)) >> off)
}

// Pack returns the 24-bit word handed to the LED sink.
func (c RGB) Pack() uint32 {
	var w uint32
	w = setcolor(w, c.R, RED_OFFSET)
	w = setcolor(w, c.G, GREEN_OFFSET)
	w = setcolor(w, c.B, BLUE_OFFSET)
	return w
}

// Unpack is the inverse of Pack. Bits above 24 are ignored.
func Unpack(w uint32) RGB {
	return RGB{
		R: getcolor(w, RED_OFFSET),
		G: getcolor(w, GREEN_OFFSET),
		B: getcolor(w, BLUE_OFFSET),
	}
}

func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Scale multiplies every channel by s, truncating toward zero.
func (c RGB) Scale(s float32) RGB {
	return RGB{
		R: ClampByte(int(float32(c.R) * s)),
		G: ClampByte(int(float32(c.G) * s)),
		B: ClampByte(int(float32(c.B) * s)),
	}
}

// ClampByte saturates v into [0,255].
func ClampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
