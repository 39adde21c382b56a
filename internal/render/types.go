package render

import (
	"errors"
	"sort"

	"github.com/coreman2200/turbolights/internal/input"
	"github.com/coreman2200/turbolights/model"
)

// ErrUnknownEffect is returned when an effect name is not registered.
var ErrUnknownEffect = errors.New("effect not found")

// Effect computes one frame of the logical color buffer from the current
// input. Effects own whatever state they carry between frames and must write
// every index they manage on every call.
type Effect interface {
	Name() string
	Render(dst model.Buffer, frame uint32, in input.Snapshot)
}

// Resetter is implemented by stateful effects that can go back to their
// power-on state.
type Resetter interface {
	Reset()
}

type Registry struct{ m map[string]Effect }

func NewRegistry() *Registry { return &Registry{m: map[string]Effect{}} }

func (r *Registry) Register(e Effect) {
	if e == nil {
		return
	}
	r.m[e.Name()] = e
}

func (r *Registry) Get(name string) (Effect, bool) { e, ok := r.m[name]; return e, ok }

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
