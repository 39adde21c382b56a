//go:build !rp2040

package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// DefaultNRZFreq is the SPI clock for WS2812B at an 800kHz bit rate, three
// SPI bits per data bit plus headroom.
const DefaultNRZFreq = ((800 * 3) + 100) * physic.KiloHertz

// NRZ drives a WS2812B chain through an SPI port using periph's NRZ encoder.
type NRZ struct {
	mu     sync.Mutex
	dev    *nrzled.Dev
	port   spi.Port
	closer func() error
	count  int
}

// NewNRZ wraps an already opened SPI port.
func NewNRZ(p spi.Port, count int, freq physic.Frequency) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if freq == 0 {
		freq = DefaultNRZFreq
	}
	opts := nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: d, port: p, count: count}, nil
}

// OpenNRZ initialises the host drivers and opens the named SPI port ("" picks
// the first one available).
func OpenNRZ(name string, count int, freq physic.Frequency) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", name, err)
	}
	n, err := NewNRZ(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	n.closer = p.Close
	return n, nil
}

func (n *NRZ) Write(rgb []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dev == nil {
		return ErrClosed
	}
	if len(rgb) > n.count*3 {
		rgb = rgb[:n.count*3]
	}
	if _, err := n.dev.Write(rgb); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

func (n *NRZ) String() string {
	if n.dev == nil {
		return "nrz{closed}"
	}
	return n.dev.String()
}

func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dev == nil {
		return nil
	}
	err := n.dev.Halt()
	n.dev = nil
	if n.closer != nil {
		if cerr := n.closer(); err == nil {
			err = cerr
		}
	}
	return err
}
