package render

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/internal/layout"
	"github.com/coreman2200/turbolights/internal/led"
	"github.com/coreman2200/turbolights/model"
)

// fakeEffect writes a constant color for testing.
type fakeEffect struct {
	name   string
	c      model.RGB
	calls  int
	resets int
}

func (f *fakeEffect) Name() string { return f.name }
func (f *fakeEffect) Render(dst model.Buffer, frame uint32, in input.Snapshot) {
	f.calls++
	dst.Fill(f.c)
}
func (f *fakeEffect) Reset() { f.resets++ }

// partialEffect writes only the first slot.
type partialEffect struct{}

func (partialEffect) Name() string { return "partial" }
func (partialEffect) Render(dst model.Buffer, frame uint32, in input.Snapshot) {
	dst[0] = model.NewRGB(1, 1, 1)
}

// failingDriver rejects every frame.
type failingDriver struct{}

var errWire = errors.New("wire cut")

func (failingDriver) Write([]byte) error { return errWire }
func (failingDriver) Close() error       { return nil }

func TestEngineRenderOnce(t *testing.T) {
	sim := led.NewSim()
	red := &fakeEffect{name: "red", c: model.NewRGB(255, 0, 0)}
	e, err := NewEngine(model.LedCount, layout.Controller, led.NewFrame(sim, model.LedCount), red, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	if err := e.RenderOnce(1, input.Snapshot{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	last := sim.Last()
	if len(last) != layout.Controller.Len()*3 {
		t.Fatalf("expected %d bytes, got %d", layout.Controller.Len()*3, len(last))
	}
	if last[0] != 255 || last[1] != 0 || last[2] != 0 {
		t.Fatalf("expected red frame, got %v", last[:3])
	}
	if e.Last.Writes != layout.Controller.Len() || e.Last.Frame != 1 {
		t.Fatalf("unexpected metrics %+v", e.Last)
	}
}

func TestEngineSetEffect(t *testing.T) {
	var words []uint32
	sink := led.SinkFunc(func(w uint32) { words = append(words, w) })
	reg := NewRegistry()
	red := &fakeEffect{name: "red", c: model.NewRGB(255, 0, 0)}
	reg.Register(red)
	reg.Register(partialEffect{})
	reg.Register(nil)

	e, err := NewEngine(model.LedCount, layout.Controller, sink, red, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	_ = e.RenderOnce(0, input.Snapshot{})

	if err := e.SetEffect("missing", reg); !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("expected ErrUnknownEffect, got %v", err)
	}
	if err := e.SetEffect("partial", reg); err != nil {
		t.Fatalf("set: %v", err)
	}
	if e.Active().Name() != "partial" {
		t.Fatalf("expected partial active")
	}

	words = words[:0]
	_ = e.RenderOnce(1, input.Snapshot{})
	// Index 1 was red under the old effect; the switch must not leak it.
	if words[1] != 0 {
		t.Fatalf("stale color leaked across effect switch: %06x", words[1])
	}
	if words[0] != 0x010101 {
		t.Fatalf("expected new effect output, got %06x", words[0])
	}
}

func TestEngineFlushError(t *testing.T) {
	e, err := NewEngine(model.LedCount, layout.Controller, led.NewFrame(failingDriver{}, model.LedCount), &fakeEffect{name: "x"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if err := e.RenderOnce(3, input.Snapshot{}); !errors.Is(err, errWire) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestEngineRejectsBadChain(t *testing.T) {
	if _, err := NewEngine(8, layout.Controller, led.SinkFunc(func(uint32) {}), nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected chain validation error")
	}
	if _, err := NewEngine(0, layout.Controller, led.SinkFunc(func(uint32) {}), nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected size error")
	}
	if _, err := NewEngine(32, layout.Controller, nil, nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected sink error")
	}
}

func TestEngineReset(t *testing.T) {
	f := &fakeEffect{name: "f", c: model.NewRGB(9, 9, 9)}
	e, _ := NewEngine(model.LedCount, layout.Controller, led.SinkFunc(func(uint32) {}), f, zerolog.Nop())
	_ = e.RenderOnce(0, input.Snapshot{})
	e.Reset()
	if f.resets != 1 {
		t.Fatalf("expected reset to reach effect")
	}
	if e.Snapshot()[0] != (model.RGB{}) {
		t.Fatalf("expected cleared buffer")
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeEffect{name: "b"})
	reg.Register(&fakeEffect{name: "a"})
	got := reg.List()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected list %v", got)
	}
}
