package sequence

import "sort"

// Constant is an envelope holding v for the whole clip.
func Constant(v float64) Envelope {
	return Envelope{Keys: []Keyframe{{T: 0, V: v}}}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func ease(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "cubic":
		// 6x^5 - 15x^4 + 10x^3
		return x * x * x * (x*(x*6-15) + 10)
	default:
		return x
	}
}

// Sort orders the keys by time. Scripts written by hand are not always sorted.
func (e *Envelope) Sort() {
	sort.SliceStable(e.Keys, func(i, j int) bool { return e.Keys[i].T < e.Keys[j].T })
}

// Eval returns the value of the envelope at time t (seconds). No keys is 0;
// before the first key and after the last one the end values hold.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	switch {
	case n == 0:
		return 0
	case t <= e.Keys[0].T:
		return e.Keys[0].V
	case t >= e.Keys[n-1].T:
		return e.Keys[n-1].V
	}
	// first key strictly after t; i >= 1 here
	i := sort.Search(n, func(i int) bool { return e.Keys[i].T > t })
	a, b := e.Keys[i-1], e.Keys[i]
	den := b.T - a.T
	if den <= 0 {
		return b.V
	}
	u := ease(a.Ease, clamp01((t-a.T)/den))
	return a.V + (b.V-a.V)*u
}
