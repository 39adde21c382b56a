package colorcycle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/model"
)

func TestWheelBands(t *testing.T) {
	for _, tc := range []struct {
		pos  int
		want model.RGB
	}{
		{0, model.RGB{R: 0, G: 127, B: 0}},
		{100, model.RGB{R: 50, G: 77, B: 0}},
		{255, model.RGB{R: 127, G: 0, B: 0}},
		{256, model.RGB{R: 127, G: 0, B: 0}},
		{356, model.RGB{R: 77, G: 0, B: 50}},
		{512, model.RGB{R: 0, G: 0, B: 127}},
		{767, model.RGB{R: 0, G: 127, B: 0}},
		{768 + 100, model.RGB{R: 50, G: 77, B: 0}},
		{-668, model.RGB{R: 50, G: 77, B: 0}},
	} {
		assert.Equal(t, tc.want, Wheel(tc.pos, 0.5), "pos %d", tc.pos)
	}
}

func TestWheelUnscaled(t *testing.T) {
	assert.Equal(t, model.RGB{R: 10, G: 245}, Wheel(10, 1))
}

func TestWheelPositionNormalized(t *testing.T) {
	frames := []uint32{0, 1, 2, 37, 383, 384, 1000, 123456, math.MaxUint32 - 1, math.MaxUint32}
	for _, step := range []int{2, -20} {
		for _, f := range frames {
			for z := 0; z < Zones; z++ {
				p := WheelPosition(step, f, z)
				require.GreaterOrEqual(t, p, 0)
				require.Less(t, p, WheelSteps)
			}
		}
	}
}

func TestReverseIsTenTimesFaster(t *testing.T) {
	tn := DefaultTuning()
	for f := uint32(0); f < 2000; f += 7 {
		fwd := WheelPosition(tn.ForwardStep, f+1, 0) - WheelPosition(tn.ForwardStep, f, 0)
		rev := WheelPosition(tn.ReverseStep, f, 0) - WheelPosition(tn.ReverseStep, f+1, 0)
		fwd = (fwd + WheelSteps) % WheelSteps
		rev = (rev + WheelSteps) % WheelSteps
		assert.Equal(t, 2, fwd, "frame %d", f)
		assert.Equal(t, 20, rev, "frame %d", f)
		assert.Equal(t, 10*fwd, rev)
	}
}

func TestZonesSpacedAroundWheel(t *testing.T) {
	for z := 0; z < Zones; z++ {
		assert.Equal(t, z*96, WheelPosition(2, 0, z))
	}
	assert.Equal(t, (2*10+96*3)%WheelSteps, WheelPosition(2, 10, 3))
	assert.Equal(t, ((-20*10+96*3)%WheelSteps+WheelSteps)%WheelSteps, WheelPosition(-20, 10, 3))
}

func TestRenderReplicatesZones(t *testing.T) {
	c := New("cycle", DefaultTuning())
	buf := model.NewBuffer(model.LedCount)
	c.Render(buf, 42, input.Snapshot{})

	for i := 0; i < Zones; i++ {
		want := Wheel(WheelPosition(2, 42, i), 0.5)
		for j := i; j < len(buf); j += Zones {
			assert.Equal(t, want, buf[j], "slot %d", j)
		}
	}
}

func TestRenderDirectionBit(t *testing.T) {
	c := New("cycle", DefaultTuning())
	fwd := model.NewBuffer(model.LedCount)
	rev := model.NewBuffer(model.LedCount)
	c.Render(fwd, 5, input.Snapshot{})
	c.Render(rev, 5, input.Snapshot{}.Press(input.Start))

	assert.Equal(t, Wheel(10, 0.5), fwd[0])
	assert.Equal(t, Wheel(768-100, 0.5), rev[0])
	assert.NotEqual(t, fwd, rev)
}

func TestRenderWritesEverySlot(t *testing.T) {
	c := New("cycle", DefaultTuning())
	buf := model.NewBuffer(model.LedCount)
	buf.Fill(model.NewRGB(1, 2, 3))
	c.Render(buf, 0, input.Snapshot{})
	for i, px := range buf {
		assert.NotEqual(t, model.NewRGB(1, 2, 3), px, "slot %d untouched", i)
	}
}
