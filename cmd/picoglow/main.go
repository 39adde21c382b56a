//go:build rp2040

// Command picoglow is the standalone firmware build: the color-cycle effect
// streamed straight from the board to its LED chain, with one switch wired
// as the start button to spin the wheel backward.
package main

import (
	"machine"
	"time"

	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/internal/layout"
	"github.com/coreman2200/turbolights/internal/led"
	"github.com/coreman2200/turbolights/internal/render/scenes/colorcycle"
	"github.com/coreman2200/turbolights/model"
)

const (
	ledPin   = machine.GP15
	startPin = machine.GP8
	frame    = 5 * time.Millisecond
)

func main() {
	startPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	sink, err := led.NewPIO(ledPin)
	if err != nil {
		panic(err.Error())
	}

	cycle := colorcycle.New("cycle", colorcycle.DefaultTuning())
	buf := model.NewBuffer(model.LedCount)
	order := layout.Controller.Order()

	var n uint32
	for {
		var in input.Snapshot
		if !startPin.Get() {
			in = in.Press(input.Start)
		}
		cycle.Render(buf, n, in)
		led.Emit(sink, buf, order)
		n++
		time.Sleep(frame)
	}
}
