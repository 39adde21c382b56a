package app

import (
	"context"
	"time"
)

// Frame is the number of frames rendered so far.
func (c *Core) Frame() uint32 { return c.frame }

// Step renders one frame: advance the script if any, sample input, render
// and emit. The frame counter advances even when the write fails.
func (c *Core) Step() error {
	if c.Seq != nil {
		c.Seq.Tick(1 / float64(c.Cfg.FPS))
	}
	in := c.Src.Sample()
	err := c.Eng.RenderOnce(c.frame, in)
	c.frame++
	return err
}

// Run steps at the configured frame rate until ctx is done. Write errors
// are logged and the loop keeps going; the LEDs recover on the next frame.
func (c *Core) Run(ctx context.Context) error {
	tick := time.NewTicker(time.Second / time.Duration(c.Cfg.FPS))
	defer tick.Stop()

	c.Log.Info().
		Str("effect", c.Eng.Active().Name()).
		Int("fps", c.Cfg.FPS).
		Int("writes", c.Eng.Chain.Len()).
		Msg("frame loop starting")

	failures := 0
	for {
		select {
		case <-ctx.Done():
			c.Log.Info().Uint32("frame", c.frame).Msg("frame loop stopped")
			return nil
		case <-tick.C:
			if err := c.Step(); err != nil {
				failures++
				// first failure, then one per second
				if failures == 1 || failures%c.Cfg.FPS == 0 {
					c.Log.Error().Err(err).Uint32("frame", c.frame).Int("failures", failures).Msg("frame write")
				}
				continue
			}
			failures = 0
		}
	}
}
