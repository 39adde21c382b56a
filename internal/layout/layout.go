package layout

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by Validate when a run addresses a slot outside
// the color buffer.
var ErrOutOfRange = errors.New("layout: index out of range")

// Run is an inclusive span of logical indices emitted in sequence. From > To
// walks backward, which is how the chain snakes back along the next edge.
type Run struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

func (r Run) Len() int {
	if r.From > r.To {
		return r.From - r.To + 1
	}
	return r.To - r.From + 1
}

func (r Run) Reversed() bool { return r.From > r.To }

// Chain is the physical wiring order of the LED string, as a list of runs
// over logical buffer indices.
type Chain []Run

// Controller is the chain of the stock controller enclosure: forward along
// the first edge, back along the second, forward, back.
var Controller = Chain{
	{From: 0, To: 7},
	{From: 13, To: 8},
	{From: 18, To: 23},
	{From: 28, To: 27},
}

// Order maps physical position (slice index) to logical buffer index.
func (c Chain) Order() []int {
	out := make([]int, 0, c.Len())
	for _, r := range c {
		if r.Reversed() {
			for i := r.From; i >= r.To; i-- {
				out = append(out, i)
			}
		} else {
			for i := r.From; i <= r.To; i++ {
				out = append(out, i)
			}
		}
	}
	return out
}

// Len is the number of pixel writes per frame.
func (c Chain) Len() int {
	n := 0
	for _, r := range c {
		n += r.Len()
	}
	return n
}

// Index returns the logical index emitted at physical position p.
func (c Chain) Index(p int) (int, bool) {
	for _, r := range c {
		if p < r.Len() {
			if r.Reversed() {
				return r.From - p, true
			}
			return r.From + p, true
		}
		p -= r.Len()
	}
	return 0, false
}

// Validate checks every run stays inside a buffer of n slots.
func (c Chain) Validate(n int) error {
	if len(c) == 0 {
		return errors.New("layout: empty chain")
	}
	for i, r := range c {
		if r.From < 0 || r.To < 0 || r.From >= n || r.To >= n {
			return fmt.Errorf("run %d (%d..%d) with %d slots: %w", i, r.From, r.To, n, ErrOutOfRange)
		}
	}
	return nil
}
