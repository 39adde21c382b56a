//go:build rp2040

package led

import (
	"machine"

	pio "github.com/tinygo-org/pio/rp2040-pio"
	"github.com/tinygo-org/pio/rp2040-pio/piolib"

	"github.com/coreman2200/turbolights/model"
)

// PIO is the on-device sink: every word goes straight into the WS2812 state
// machine's TX FIFO.
type PIO struct {
	ws *piolib.WS2812
}

// NewPIO claims state machine 0 of PIO0 and drives pin at 800kHz.
func NewPIO(pin machine.Pin) (*PIO, error) {
	sm := pio.PIO0.StateMachine(0)
	ws, err := piolib.NewWS2812(sm, pin, 8, 800000)
	if err != nil {
		return nil, err
	}
	return &PIO{ws: ws}, nil
}

func (p *PIO) PutPixel(word uint32) {
	c := model.Unpack(word)
	p.ws.SetRGB(c.R, c.G, c.B)
}
