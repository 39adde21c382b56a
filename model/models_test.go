package model_test

import (
	"fmt"
	"strconv"
	"testing"

	. "github.com/coreman2200/turbolights/model"
	"github.com/stretchr/testify/assert"
)

var TestRGBIsExpectedWord = []struct {
	R      uint8
	G      uint8
	B      uint8
	Expect uint32
}{
	{0x11, 0x22, 0x33, 0x112233},
	{0xFF, 0x00, 0x00, 0xFF0000},
	{0x00, 0xFF, 0x00, 0x00FF00},
	{0x00, 0x00, 0xFF, 0x0000FF},
	{62, 100, 0, 0x3E6400},
	{255, 15, 15, 0xFF0F0F},
}

func EntryBitRepresentation(c RGB) {
	fmt.Println("Word:" + strconv.FormatInt(int64(c.Pack()), 2) + "(0x" + strconv.FormatInt(int64(c.Pack()), 16) + ")")
}

func TestColorsPack(t *testing.T) {
	for k, v := range TestRGBIsExpectedWord {
		t.Run("Given RGB"+strconv.FormatUint(uint64(k), 10), func(t *testing.T) {
			col := NewRGB(v.R, v.G, v.B)
			EntryBitRepresentation(col)
			assert.Equal(t, v.Expect, col.Pack(), "should be same word")
			assert.Equal(t, col, Unpack(v.Expect))
		})
	}
}

func TestUnpackIgnoresHighByte(t *testing.T) {
	assert.Equal(t, NewRGB(0x12, 0x34, 0x56), Unpack(0xAB123456))
}

func TestClampByte(t *testing.T) {
	assert.Equal(t, uint8(0), ClampByte(-40))
	assert.Equal(t, uint8(255), ClampByte(320))
	assert.Equal(t, uint8(128), ClampByte(128))
}

func TestScaleTruncates(t *testing.T) {
	c := NewRGB(255, 1, 100).Scale(0.5)
	assert.Equal(t, NewRGB(127, 0, 50), c)
}

func TestBufferStride(t *testing.T) {
	b := NewBuffer(LedCount)
	red := NewRGB(255, 0, 0)
	b.SetStride(3, SegmentLength, red)
	for i, c := range b {
		if i%SegmentLength == 3 {
			assert.Equal(t, red, c, "index %d", i)
		} else {
			assert.Equal(t, RGB{}, c, "index %d", i)
		}
	}

	b.Fill(red)
	b.Clear()
	assert.Equal(t, make([]byte, LedCount*3), b.Bytes())
}

func TestBufferBytesOrder(t *testing.T) {
	b := Buffer{NewRGB(1, 2, 3), NewRGB(4, 5, 6)}
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, b.Bytes())

	c := b.Clone()
	c[0] = RGB{}
	assert.Equal(t, NewRGB(1, 2, 3), b[0])
}

func TestGeometry(t *testing.T) {
	assert.Equal(t, 32, LedCount)
	assert.Equal(t, 4, SegmentCount)
}
