// Package termui draws the LED chain in a terminal and turns key presses
// into controller input, for working on effects without a board.
//
// Terminals report presses but not releases, so button keys toggle. Space
// releases every button.
package termui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/internal/led"
)

// DefaultKeys follows the keyboard layout of the controller's own keyboard
// mode.
var DefaultKeys = map[rune]int{
	'd': input.BtnA,
	'f': input.BtnB,
	'j': input.BtnC,
	'k': input.BtnD,
	'c': input.FXL,
	'm': input.FXR,
	'a': input.Aux1,
	'b': input.Aux2,
	'1': input.Start,
}

var buttonNames = [input.NumBtn]string{"A", "B", "C", "D", "FX-L", "FX-R", "AUX1", "AUX2", "START"}

type UI struct {
	Keys map[rune]int
	// Step is how many encoder ticks one arrow press turns.
	Step int32

	screen tcell.Screen
	count  int

	mu     sync.Mutex
	state  input.Snapshot
	closed bool
	quit   chan struct{}
	once   sync.Once
}

// Open initialises the terminal.
func Open(count int) (*UI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return New(s, count), nil
}

// New wraps an initialised screen.
func New(s tcell.Screen, count int) *UI {
	return &UI{
		Keys:   DefaultKeys,
		Step:   8,
		screen: s,
		count:  count,
		quit:   make(chan struct{}),
	}
}

// Sample returns the keyboard state; UI is an input.Source.
func (u *UI) Sample() input.Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Quit is closed once the user asks to leave.
func (u *UI) Quit() <-chan struct{} { return u.quit }

// Press applies one key. It returns false for the quit keys.
func (u *UI) Press(k tcell.Key, r rune) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		u.state = u.state.Turn(input.Left, -u.Step)
	case tcell.KeyRight:
		u.state = u.state.Turn(input.Left, u.Step)
	case tcell.KeyDown:
		u.state = u.state.Turn(input.Right, -u.Step)
	case tcell.KeyUp:
		u.state = u.state.Turn(input.Right, u.Step)
	case tcell.KeyRune:
		if r == 'q' {
			return false
		}
		if r == ' ' {
			u.state.Buttons = 0
			break
		}
		if bit, ok := u.Keys[r]; ok {
			u.state.Buttons ^= 1 << uint(bit)
		}
	}
	return true
}

// Run polls terminal events until ctx is done, the screen is closed or a
// quit key is pressed.
func (u *UI) Run(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-u.quit:
		}
	}()
	for {
		ev := u.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			u.stop()
			return
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				u.stop()
				return
			}
		case *tcell.EventKey:
			if !u.Press(ev.Key(), ev.Rune()) {
				u.stop()
				return
			}
		case *tcell.EventResize:
			u.screen.Sync()
		}
	}
}

func (u *UI) stop() { u.once.Do(func() { close(u.quit) }) }

// Write draws one frame: the LEDs as colored blocks in chain order, then
// the held buttons and the encoder counters. UI is an led.Driver.
func (u *UI) Write(rgb []byte) error {
	u.mu.Lock()
	closed := u.closed
	u.mu.Unlock()
	if closed {
		return led.ErrClosed
	}
	for i := 0; i < u.count && i*3+2 < len(rgb); i++ {
		c := tcell.NewRGBColor(int32(rgb[i*3]), int32(rgb[i*3+1]), int32(rgb[i*3+2]))
		st := tcell.StyleDefault.Background(c)
		u.screen.SetContent(i*2, 0, ' ', nil, st)
		u.screen.SetContent(i*2+1, 0, ' ', nil, st)
	}

	in := u.Sample()
	x := 0
	for b, name := range buttonNames {
		st := tcell.StyleDefault.Dim(true)
		if in.Held(b) {
			st = tcell.StyleDefault.Reverse(true)
		}
		x = u.text(x, 2, st, name) + 1
	}
	u.text(0, 3, tcell.StyleDefault, fmt.Sprintf("L %-10d R %-10d  arrows spin, space releases, q quits",
		int32(in.Encoders[input.Left]), int32(in.Encoders[input.Right])))
	u.screen.Show()
	return nil
}

func (u *UI) text(x, y int, st tcell.Style, s string) int {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}

// Close restores the terminal.
func (u *UI) Close() error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.closed = true
	u.mu.Unlock()
	u.screen.Fini()
	u.stop()
	return nil
}
