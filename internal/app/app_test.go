package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/turbolights/internal/config"
	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/internal/led"
	"github.com/coreman2200/turbolights/internal/render"
	"github.com/coreman2200/turbolights/internal/sequence"
	"github.com/coreman2200/turbolights/model"
)

func rgbAt(frame []byte, p int) model.RGB {
	return model.NewRGB(frame[p*3], frame[p*3+1], frame[p*3+2])
}

func TestRegistryHasBuiltins(t *testing.T) {
	reg := NewRegistry(config.Default())
	assert.Equal(t, []string{EffectCycle, EffectSweep, EffectTurbo}, reg.List())
}

func TestInitCoreRejectsUnknownEffect(t *testing.T) {
	cfg := config.Default()
	cfg.Effect = "strobe"
	_, err := InitCore(cfg, led.NewSim(), nil, zerolog.Nop())
	assert.ErrorIs(t, err, render.ErrUnknownEffect)

	_, err = InitCore(config.Default(), nil, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestOverlayReachesPhysicalChain(t *testing.T) {
	sim := led.NewSim()
	src := input.Static(input.Snapshot{}.Press(input.BtnD))
	core, err := InitCore(config.Default(), sim, src, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, core.Step())
	frame := sim.Last()
	require.Len(t, frame, 22*3)

	// logical 8 and 9 sit at physical 13 and 12 on the reversed second run
	red := model.NewRGB(255, 15, 15)
	assert.Equal(t, red, rgbAt(frame, 13))
	assert.Equal(t, red, rgbAt(frame, 12))
	assert.Equal(t, model.RGB{}, rgbAt(frame, 0))
	assert.Equal(t, uint32(1), core.Frame())
}

func TestColorCycleReversesOnStart(t *testing.T) {
	cfg := config.Default()
	cfg.Effect = EffectCycle
	sim := led.NewSim()
	core, err := InitCore(cfg, sim, input.Static(input.Snapshot{}.Press(input.Start)), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, core.Step()) // frame 0
	require.NoError(t, core.Step()) // frame 1
	snap := core.Eng.Snapshot()
	// zone 0 sits at 748, late in the green-over-blue band, halved
	assert.Equal(t, model.RGB{G: 118, B: 9}, snap[0])
}

func TestScriptDrivesCore(t *testing.T) {
	cfg := config.Default()
	cfg.FPS = 4
	sim := led.NewSim()
	core, err := InitCore(cfg, sim, nil, zerolog.Nop())
	require.NoError(t, err)

	p := sequence.NewPlayer(core.PlayerHooks())
	require.NoError(t, p.Load(sequence.Program{Clips: []sequence.Clip{
		{Name: "spin", Effect: EffectTurbo, DurationS: 0.5, Spin: [input.NumEncoders]sequence.Envelope{sequence.Constant(40)}},
		{Name: "rainbow", Effect: EffectCycle, DurationS: 1},
	}}))
	core.UsePlayer(p)
	p.Start()

	require.NoError(t, core.Step())
	assert.Equal(t, EffectTurbo, core.Eng.Active().Name())
	// 10 ticks left at reverse=false: the left blob left home backward
	snap := core.Eng.Snapshot()
	assert.NotEqual(t, model.RGB{}, snap[6])
	assert.Equal(t, model.RGB{}, snap[0])

	require.NoError(t, core.Step())
	assert.Equal(t, EffectCycle, core.Eng.Active().Name())
}

func TestRunUntilCancelled(t *testing.T) {
	sim := led.NewSim()
	core, err := InitCore(config.Default(), sim, nil, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, core.Run(ctx))
	assert.Greater(t, sim.Frames(), 0)
	assert.Equal(t, uint32(sim.Frames()), core.Frame())
}

func TestRunSurvivesWriteErrors(t *testing.T) {
	sim := led.NewSim()
	require.NoError(t, sim.Close())
	core, err := InitCore(config.Default(), sim, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.ErrorIs(t, core.Step(), led.ErrClosed)
	assert.Equal(t, uint32(1), core.Frame())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, core.Run(ctx))
	assert.Greater(t, core.Frame(), uint32(1))
}

func TestOpenDriver(t *testing.T) {
	cfg := config.Default()
	for _, d := range []string{"sim", "log", "screen"} {
		cfg.Driver = d
		drv, err := OpenDriver(cfg, zerolog.Nop())
		require.NoError(t, err, d)
		require.NoError(t, drv.Close())
	}
	cfg.Driver = "term"
	_, err := OpenDriver(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalid)
}
