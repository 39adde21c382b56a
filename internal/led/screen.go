//go:build !rp2040

package led

import (
	"fmt"

	"periph.io/x/devices/v3/screen1d"
)

// Screen prints each frame as one line of colored blocks on the console.
type Screen struct {
	dev *screen1d.Dev
}

func NewScreen(count int) (*Screen, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	return &Screen{dev: screen1d.New(&screen1d.Opts{X: count})}, nil
}

func (s *Screen) Write(rgb []byte) error {
	if s.dev == nil {
		return ErrClosed
	}
	_, err := s.dev.Write(rgb)
	return err
}

func (s *Screen) Close() error {
	if s.dev == nil {
		return nil
	}
	err := s.dev.Halt()
	s.dev = nil
	return err
}
