//go:build !rp2040

package led

import (
	"github.com/rs/zerolog"
)

// Log prints a compact summary of every Nth frame (first pixel & avg), useful
// for headless runs.
type Log struct {
	Logger zerolog.Logger
	Level  zerolog.Level
	Every  int
	Count  int
}

// NewLog summarises every Nth frame at info level.
func NewLog(l zerolog.Logger, every int) *Log {
	if every <= 0 {
		every = 1
	}
	return &Log{Logger: l, Level: zerolog.InfoLevel, Every: every}
}

func (d *Log) Write(rgb []byte) error {
	d.Count++
	if d.Every > 1 && d.Count%d.Every != 0 {
		return nil
	}
	// compute simple average for log
	var r, g, b int
	n := len(rgb) / 3
	for i := 0; i < n; i++ {
		r += int(rgb[i*3])
		g += int(rgb[i*3+1])
		b += int(rgb[i*3+2])
	}
	ev := d.Logger.WithLevel(d.Level).Int("frame", d.Count).Int("pixels", n)
	if n > 0 {
		ev = ev.
			Ints("avg", []int{r / n, g / n, b / n}).
			Ints("first", []int{int(rgb[0]), int(rgb[1]), int(rgb[2])})
	}
	ev.Msg("frame")
	return nil
}

func (d *Log) Close() error { return nil }
