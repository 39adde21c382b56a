package render

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/internal/layout"
	"github.com/coreman2200/turbolights/internal/led"
	"github.com/coreman2200/turbolights/model"
)

// Engine runs one effect per frame into the color buffer, then streams the
// buffer to the sink in chain order.
type Engine struct {
	Buf   model.Buffer
	Chain layout.Chain
	Sink  led.Sink
	Log   zerolog.Logger

	mu     sync.Mutex
	active Effect
	order  []int

	// metrics of the last frame
	Last struct {
		Frame    uint32
		Writes   int
		RenderUS int64
		TotalUS  int64
	}
}

// NewEngine allocates an n-slot buffer and precomputes the chain order.
func NewEngine(n int, chain layout.Chain, sink led.Sink, e Effect, log zerolog.Logger) (*Engine, error) {
	if n <= 0 {
		return nil, errors.New("invalid buffer size")
	}
	if sink == nil {
		return nil, errors.New("nil sink")
	}
	if err := chain.Validate(n); err != nil {
		return nil, err
	}
	return &Engine{
		Buf:    model.NewBuffer(n),
		Chain:  chain,
		Sink:   sink,
		Log:    log,
		active: e,
		order:  chain.Order(),
	}, nil
}

// Active returns the effect that renders the next frame.
func (e *Engine) Active() Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// RenderOnce runs a full frame: effect update, then emission of every chain
// position. Nothing is emitted until the effect has finished with the buffer.
func (e *Engine) RenderOnce(frame uint32, in input.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	if e.active != nil {
		e.active.Render(e.Buf, frame, in)
	}
	renderDone := time.Now()

	writes := led.Emit(e.Sink, e.Buf, e.order)

	e.Last.Frame = frame
	e.Last.Writes = writes
	e.Last.RenderUS = renderDone.Sub(start).Microseconds()

	if f, ok := e.Sink.(led.Flusher); ok {
		if err := f.Flush(); err != nil {
			e.Last.TotalUS = time.Since(start).Microseconds()
			return fmt.Errorf("flush frame %d: %w", frame, err)
		}
	}
	e.Last.TotalUS = time.Since(start).Microseconds()
	return nil
}

// Snapshot returns a copy of the logical buffer after the last frame.
func (e *Engine) Snapshot() model.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Buf.Clone()
}

// SetEffect switches the active effect between frames. The buffer is cleared
// so slots the new effect does not manage never show the old one's colors.
func (e *Engine) SetEffect(name string, reg *Registry) error {
	if reg == nil {
		return errors.New("registry is nil")
	}
	ef, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == ef {
		return nil
	}
	e.active = ef
	e.Buf.Clear()
	e.Log.Info().Str("effect", name).Msg("effect switched")
	return nil
}

// Reset puts the active effect back to its power-on state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.active.(Resetter); ok {
		r.Reset()
	}
	e.Buf.Clear()
}
