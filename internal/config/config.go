package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/turbolights/internal/layout"
	"github.com/coreman2200/turbolights/internal/render/scenes/colorcycle"
	"github.com/coreman2200/turbolights/internal/render/scenes/sweep"
	"github.com/coreman2200/turbolights/internal/render/scenes/turbo"
	"github.com/coreman2200/turbolights/model"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Drivers understood by the runner.
var Drivers = []string{"sim", "spi", "screen", "log", "term"}

type SPI struct {
	Dev     string `yaml:"dev"`      // "" picks the first port, else e.g. /dev/spidev0.0
	SpeedHz int64  `yaml:"speed_hz"` // 0 uses the NRZ default
}

type Preview struct {
	Addr string `yaml:"addr"` // empty disables the HTTP preview
}

type Config struct {
	Driver string `yaml:"driver"`
	FPS    int    `yaml:"fps"`
	Effect string `yaml:"effect"`
	LEDs   int    `yaml:"leds"`

	Chain   layout.Chain `yaml:"chain"`
	SPI     SPI          `yaml:"spi"`
	Preview Preview      `yaml:"preview"`

	Turbo turbo.Tuning      `yaml:"turbo"`
	Cycle colorcycle.Tuning `yaml:"cycle"`
	Sweep sweep.Plan        `yaml:"sweep"`
}

// Default is the stock controller: 200 Hz, chase effect, simulated output.
func Default() *Config {
	chain := make(layout.Chain, len(layout.Controller))
	copy(chain, layout.Controller)
	return &Config{
		Driver: "sim",
		FPS:    200,
		Effect: "turbo",
		LEDs:   model.LedCount,
		Chain:  chain,
		Turbo:  turbo.DefaultTuning(),
		Cycle:  colorcycle.DefaultTuning(),
		Sweep:  sweep.Plan{Kind: sweep.IndexSweep, Hold: 40},
	}
}

func (c *Config) Validate() error {
	known := false
	for _, d := range Drivers {
		if d == c.Driver {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver)
	}
	if c.FPS <= 0 || c.FPS > 1000 {
		return fmt.Errorf("%w: fps %d out of range 1..1000", ErrInvalid, c.FPS)
	}
	if c.Effect == "" {
		return fmt.Errorf("%w: no effect selected", ErrInvalid)
	}
	if c.LEDs <= 0 {
		return fmt.Errorf("%w: leds %d", ErrInvalid, c.LEDs)
	}
	if err := c.Chain.Validate(c.LEDs); err != nil {
		return fmt.Errorf("%w: chain: %v", ErrInvalid, err)
	}
	t := c.Turbo
	if t.PulsesPerRev <= 0 {
		return fmt.Errorf("%w: turbo.pulses_per_rev must be positive", ErrInvalid)
	}
	if t.SegmentLength <= 0 || t.StripEnd <= 0 {
		return fmt.Errorf("%w: turbo strip geometry", ErrInvalid)
	}
	if t.Clamp < t.Threshold {
		return fmt.Errorf("%w: turbo.clamp %v below threshold %v", ErrInvalid, t.Clamp, t.Threshold)
	}
	if t.FadeFrames < 0 || t.FadeStep < 0 || t.Decay < 0 || t.Velocity < 0 {
		return fmt.Errorf("%w: turbo timings must not be negative", ErrInvalid)
	}
	if c.Cycle.Scale < 0 || c.Cycle.Scale > 1 {
		return fmt.Errorf("%w: cycle.scale %v out of range 0..1", ErrInvalid, c.Cycle.Scale)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML (by extension) file over the defaults, so a file
// only needs the keys it changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isTOML(path) {
		if b, err = tomlToYAML(b); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if isTOML(path) {
		if b, err = yamlToTOML(b); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0644)
}

// TOML documents go through a generic map so both formats share the yaml
// keys and the overlay-on-defaults decoding.
func tomlToYAML(b []byte) ([]byte, error) {
	tree, err := toml.LoadBytes(b)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(tree.ToMap())
}

func yamlToTOML(b []byte) ([]byte, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	tree, err := toml.TreeFromMap(m)
	if err != nil {
		return nil, err
	}
	out, err := tree.ToTomlString()
	return []byte(out), err
}
