package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/turbolights/internal/app"
	"github.com/coreman2200/turbolights/internal/config"
	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/internal/led"
	"github.com/coreman2200/turbolights/internal/preview"
	"github.com/coreman2200/turbolights/internal/sequence"
	"github.com/coreman2200/turbolights/internal/termui"
)

// Overrides replace single config values from the command line.
type Overrides struct {
	Driver      string `help:"LED output: sim, spi, screen, log or term" short:"d"`
	Effect      string `help:"Effect to start with: cycle, turbo or sweep" short:"e"`
	FPS         int    `help:"Frames per second"`
	PreviewAddr string `help:"Serve the browser preview on this address, e.g. :8080"`
}

func (o Overrides) apply(c *config.Config) error {
	if o.Driver != "" {
		c.Driver = o.Driver
	}
	if o.Effect != "" {
		c.Effect = o.Effect
	}
	if o.FPS != 0 {
		c.FPS = o.FPS
	}
	if o.PreviewAddr != "" {
		c.Preview.Addr = o.PreviewAddr
	}
	return c.Validate()
}

// configPath is --config, or the first default board config present in
// the working directory.
func (g *Globals) configPath() string {
	if g.Config != "" {
		return g.Config
	}
	for _, p := range []string{"turbolights.yaml", "turbolights.toml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (g *Globals) load(log zerolog.Logger) (*config.Config, error) {
	path := g.configPath()
	if path == "" {
		log.Debug().Msg("no board config; using defaults")
		return config.Default(), nil
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Msg("board config loaded")
	return c, nil
}

// session is everything a running command holds open.
type session struct {
	cfg  *config.Config
	core *app.Core
	drv  led.Driver
	ui   *termui.UI
	log  zerolog.Logger
}

func openSession(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*session, error) {
	s := &session{cfg: cfg, log: log}
	var src input.Source
	if cfg.Driver == "term" {
		ui, err := termui.Open(cfg.Chain.Len())
		if err != nil {
			return nil, fmt.Errorf("terminal: %w", err)
		}
		s.ui, s.drv, src = ui, ui, ui
		// the screen owns the terminal now
		s.log = zerolog.Nop()
	} else {
		drv, err := app.OpenDriver(cfg, log)
		if err != nil && cfg.Driver == "spi" {
			log.Warn().Err(err).Str("driver", "spi").Str("dev", cfg.SPI.Dev).Msg("SPI init failed; printing at the console")
			drv, err = led.NewScreen(cfg.Chain.Len())
		}
		if err != nil {
			return nil, err
		}
		s.drv = drv
	}

	var srv *preview.Server
	if cfg.Preview.Addr != "" {
		srv = preview.New(cfg.Chain.Len(), cfg.FPS, s.log)
		srv.Every = max(1, cfg.FPS/30)
		s.drv = led.Tee{s.drv, srv}
	}

	core, err := app.InitCore(cfg, s.drv, src, s.log)
	if err != nil {
		_ = s.drv.Close()
		return nil, err
	}
	s.core = core

	if srv != nil {
		srv.Effect = func() string { return core.Eng.Active().Name() }
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Preview.Addr); err != nil {
				s.log.Error().Err(err).Msg("preview server")
			}
		}()
	}
	return s, nil
}

// run drives the frame loop until ctx ends or the terminal UI quits.
func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.ui != nil {
		go s.ui.Run(ctx)
		go func() {
			<-s.ui.Quit()
			cancel()
		}()
	}
	err := s.core.Run(ctx)
	if cerr := s.drv.Close(); err == nil && cerr != nil && !errors.Is(cerr, led.ErrClosed) {
		err = cerr
	}
	return err
}

type RunCmd struct {
	Overrides `embed:""`
}

func (r *RunCmd) Run(g *Globals, log zerolog.Logger) error {
	cfg, err := g.load(log)
	if err != nil {
		return err
	}
	if err := r.apply(cfg); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	return s.run(ctx)
}

type PlayCmd struct {
	Overrides `embed:""`

	Script string `arg:"" help:"Input script (.yaml or .json)" type:"existingfile"`
	Loop   bool   `help:"Repeat the script until interrupted"`
}

func (p *PlayCmd) Run(g *Globals, log zerolog.Logger) error {
	cfg, err := g.load(log)
	if err != nil {
		return err
	}
	if err := p.apply(cfg); err != nil {
		return err
	}
	prog, err := sequence.LoadFile(p.Script)
	if err != nil {
		return err
	}
	if p.Loop {
		prog.Loop = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	player := sequence.NewPlayer(s.core.PlayerHooks())
	if err := player.Load(prog); err != nil {
		_ = s.drv.Close()
		return err
	}
	s.core.UsePlayer(player)
	player.Start()

	go func() {
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if player.Done() {
					s.log.Info().Str("script", p.Script).Msg("script finished")
					cancel()
					return
				}
			}
		}
	}()
	return s.run(ctx)
}

type InitCmd struct {
	Output string `arg:"" optional:"" help:"Destination (.yaml or .toml)" default:"turbolights.yaml"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

func (i *InitCmd) Run(log zerolog.Logger) error {
	if !i.Force {
		if _, err := os.Stat(i.Output); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := config.Save(i.Output, config.Default()); err != nil {
		return err
	}
	log.Info().Str("path", i.Output).Msg("board config written")
	return nil
}
