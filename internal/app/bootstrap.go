package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/turbolights/internal/config"
	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/internal/led"
	"github.com/coreman2200/turbolights/internal/render"
	"github.com/coreman2200/turbolights/internal/render/scenes/colorcycle"
	"github.com/coreman2200/turbolights/internal/render/scenes/sweep"
	"github.com/coreman2200/turbolights/internal/render/scenes/turbo"
	"github.com/coreman2200/turbolights/internal/sequence"
)

// Effect names as registered.
const (
	EffectCycle = "cycle"
	EffectTurbo = "turbo"
	EffectSweep = "sweep"
)

// NewRegistry registers every built-in effect, tuned from cfg.
func NewRegistry(cfg *config.Config) *render.Registry {
	plan := cfg.Sweep
	if len(plan.Order) == 0 {
		plan.Order = cfg.Chain.Order()
	}
	reg := render.NewRegistry()
	reg.Register(colorcycle.New(EffectCycle, cfg.Cycle))
	reg.Register(turbo.New(EffectTurbo, cfg.Turbo))
	reg.Register(sweep.New(EffectSweep, plan))
	return reg
}

// OpenDriver opens the frame transport named by cfg.Driver. "term" is not
// handled here since the terminal is also the input source.
func OpenDriver(cfg *config.Config, log zerolog.Logger) (led.Driver, error) {
	n := cfg.Chain.Len()
	switch cfg.Driver {
	case "sim":
		return led.NewSim(), nil
	case "log":
		return led.NewLog(log, cfg.FPS), nil
	case "screen":
		return led.NewScreen(n)
	case "spi":
		return led.OpenNRZ(cfg.SPI.Dev, n, physic.Frequency(cfg.SPI.SpeedHz)*physic.Hertz)
	default:
		return nil, fmt.Errorf("%w: driver %q cannot be opened here", config.ErrInvalid, cfg.Driver)
	}
}

// Core wires the effects, the engine and an input source together.
type Core struct {
	Cfg *config.Config
	Eng *render.Engine
	Reg *render.Registry
	Src input.Source
	// Seq, when set, is ticked once per frame before sampling.
	Seq *sequence.Player
	Log zerolog.Logger

	frame uint32
}

// InitCore builds the registry and the engine. Frames go to drv in chain
// order; src supplies the input of every frame.
func InitCore(cfg *config.Config, drv led.Driver, src input.Source, log zerolog.Logger) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if drv == nil {
		return nil, errors.New("no driver")
	}
	reg := NewRegistry(cfg)
	start, ok := reg.Get(cfg.Effect)
	if !ok {
		return nil, fmt.Errorf("start effect %q: %w", cfg.Effect, render.ErrUnknownEffect)
	}
	eng, err := render.NewEngine(cfg.LEDs, cfg.Chain, led.NewFrame(drv, cfg.Chain.Len()), start, log)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = input.Static{}
	}
	return &Core{Cfg: cfg, Eng: eng, Reg: reg, Src: src, Log: log}, nil
}

// UsePlayer makes p the input source; its clips switch the active effect.
func (c *Core) UsePlayer(p *sequence.Player) {
	c.Seq = p
	c.Src = p
}

// PlayerHooks routes a player's effect changes into the engine.
func (c *Core) PlayerHooks() sequence.Hooks {
	return sequence.Hooks{
		SetEffect: func(name string) {
			if err := c.Eng.SetEffect(name, c.Reg); err != nil {
				c.Log.Warn().Err(err).Str("effect", name).Msg("script effect")
			}
		},
	}
}

// SetEffect switches the running effect by name.
func (c *Core) SetEffect(name string) error {
	return c.Eng.SetEffect(name, c.Reg)
}
