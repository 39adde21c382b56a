package sequence

import (
	"errors"
	"fmt"
	"math"

	"github.com/coreman2200/turbolights/internal/input"
)

// ErrEmpty is returned when a program has nothing to play.
var ErrEmpty = errors.New("program has no clips")

// NewPlayer constructs a Player with provided hooks.
func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// Validate checks durations and button bits and sorts every envelope.
func (prog *Program) Validate() error {
	if len(prog.Clips) == 0 {
		return ErrEmpty
	}
	for i := range prog.Clips {
		c := &prog.Clips[i]
		if c.DurationS <= 0 {
			return fmt.Errorf("clip %d (%s): duration %v must be positive", i, c.Name, c.DurationS)
		}
		for _, b := range c.Buttons {
			if b < 0 || b > 15 {
				return fmt.Errorf("clip %d (%s): button bit %d out of range", i, c.Name, b)
			}
		}
		for e := range c.Spin {
			c.Spin[e].Sort()
		}
	}
	return nil
}

// Load replaces the current program. Resets time and state to Idle; encoder
// counters keep their values so effects never see a jump.
func (p *Player) Load(prog Program) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prog = prog
	p.nowS = 0
	p.idx = 0
	p.State = Idle
	p.buttons = 0
	p.frac = [input.NumEncoders]float64{}
	return nil
}

// Start moves to Running and enters the current clip.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.State == Running || len(p.prog.Clips) == 0 {
		return
	}
	p.State = Running
	p.enter()
}

// Pause pauses playback. Buttons stay held while paused.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.State == Running {
		p.State = Paused
	}
}

// Resume resumes playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.State == Paused {
		p.State = Running
	}
}

// Stop releases every button and rewinds to the start.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = Idle
	p.nowS = 0
	p.idx = 0
	p.buttons = 0
	p.frac = [input.NumEncoders]float64{}
}

// Seek jumps to absolute program time t, clamped into [0, total).
func (p *Player) Seek(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prog.Clips) == 0 {
		return
	}
	if t < 0 {
		t = 0
	}
	total := p.totalDuration()
	if t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	idx := 0
	for i, c := range p.prog.Clips {
		if t < acc+c.DurationS {
			idx = i
			break
		}
		acc += c.DurationS
	}
	p.idx = idx
	p.nowS = t
	p.frac = [input.NumEncoders]float64{}
	p.enter()
}

// Tick advances the player by dt seconds, spinning the encoders and
// crossing into later clips as their start times pass.
func (p *Player) Tick(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.State != Running || len(p.prog.Clips) == 0 || dt <= 0 {
		return
	}
	p.nowS += dt

	clip, localT := p.current()
	for e := range clip.Spin {
		p.frac[e] += clip.Spin[e].Eval(localT) * dt
		whole := math.Trunc(p.frac[e])
		p.frac[e] -= whole
		p.counters[e] += uint32(int64(whole))
	}

	for p.State == Running {
		clip, localT = p.current()
		if localT < clip.DurationS {
			break
		}
		p.advance()
	}
}

// Sample reports the scripted input; Player is an input.Source.
func (p *Player) Sample() input.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return input.Snapshot{Buttons: p.buttons, Encoders: p.counters}
}

// Clip returns the name of the clip playing and its index.
func (p *Player) Clip() (string, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prog.Clips) == 0 {
		return "", -1
	}
	return p.prog.Clips[p.idx].Name, p.idx
}

// Done reports whether a loaded program has played to its end.
func (p *Player) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State == Idle && p.nowS > 0
}

// enter applies the current clip's buttons and effect.
func (p *Player) enter() {
	clip := p.prog.Clips[p.idx]
	p.buttons = 0
	for _, b := range clip.Buttons {
		p.buttons |= 1 << uint(b)
	}
	if clip.Effect != "" && p.hooks.SetEffect != nil {
		p.hooks.SetEffect(clip.Effect)
	}
}

func (p *Player) current() (Clip, float64) {
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.prog.Clips[i].DurationS
	}
	return p.prog.Clips[p.idx], p.nowS - acc
}

func (p *Player) totalDuration() float64 {
	total := 0.0
	for _, c := range p.prog.Clips {
		total += c.DurationS
	}
	return total
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni >= len(p.prog.Clips) {
		if p.prog.Loop {
			return 0
		}
		return -1
	}
	return ni
}

func (p *Player) advance() {
	next := p.nextIndex()
	if next == -1 {
		p.State = Idle
		p.buttons = 0
		return
	}
	if next == 0 {
		p.nowS -= p.totalDuration()
	}
	p.idx = next
	p.enter()
}
