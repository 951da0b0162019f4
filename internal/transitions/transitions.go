// Package transitions maps a normalized progress value to an eased value.
//
// The curves follow the mootools Fx.Transitions catalogue. Each curve is a
// pure function of progress and can be applied in three modes: ease-in runs
// the curve as is, ease-out runs it backwards, and ease-in-out runs it
// forwards for the first half and backwards for the second.
package transitions

import (
	"fmt"
	"math"
	"strings"

	"github.com/matjam/smoothtft/internal/types"
	"github.com/tanema/gween/ease"
)

// Func is a transition curve: progress in [0,1] to position.
type Func func(progress float64) float64

// Kind names one curve of the catalogue.
type Kind int

const (
	Linear Kind = iota
	Quad
	Cubic
	Quart
	Quint
	Pow
	Expo
	Circ
	Sine
	Back
	Bounce
	Elastic
)

var kindNames = [...]string{
	Linear:  "linear",
	Quad:    "quad",
	Cubic:   "cubic",
	Quart:   "quart",
	Quint:   "quint",
	Pow:     "pow",
	Expo:    "expo",
	Circ:    "circ",
	Sine:    "sine",
	Back:    "back",
	Bounce:  "bounce",
	Elastic: "elastic",
}

// Kinds returns every curve in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Overshoots reports whether the curve leaves [0,1] near the interval edges.
func (k Kind) Overshoots() bool {
	return k == Back || k == Elastic
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return Linear, fmt.Errorf("unknown transition %q", s)
}

// Func returns the curve's pos function. Unknown kinds fall back to linear.
func (k Kind) Func() Func {
	switch k {
	case Quad:
		return power(2)
	case Cubic:
		return power(3)
	case Quart:
		return power(4)
	case Quint:
		return power(5)
	case Pow:
		return power(6)
	case Expo:
		return expo
	case Circ:
		return circ
	case Sine:
		return sine
	case Back:
		return back
	case Bounce:
		return bounce
	case Elastic:
		return elastic
	default:
		return linear
	}
}

func (k Kind) Pos(progress float64) float64       { return k.Func()(progress) }
func (k Kind) EaseIn(progress float64) float64    { return EaseIn(k.Func(), progress) }
func (k Kind) EaseOut(progress float64) float64   { return EaseOut(k.Func(), progress) }
func (k Kind) EaseInOut(progress float64) float64 { return EaseInOut(k.Func(), progress) }

// EaseIn applies the curve unchanged.
func EaseIn(pos Func, progress float64) float64 {
	return pos(progress)
}

// EaseOut applies the curve backwards.
func EaseOut(pos Func, progress float64) float64 {
	return 1 - pos(1-progress)
}

// EaseInOut applies the curve forwards for the first half of the progress
// and backwards for the second half.
func EaseInOut(pos Func, progress float64) float64 {
	if progress <= 0.5 {
		return pos(2*progress) / 2
	}
	return 2 - pos(2*(1-progress))/2
}

func linear(p float64) float64 { return p }

func power(n float64) Func {
	return func(p float64) float64 { return math.Pow(p, n) }
}

func expo(p float64) float64 {
	if p == 0 {
		return 0
	}
	return math.Pow(2, 8*(p-1))
}

func circ(p float64) float64 {
	return 1 - math.Sin(math.Acos(p))
}

func sine(p float64) float64 {
	return 1 - math.Cos(p*math.Pi/2)
}

func back(p float64) float64 {
	return math.Pow(p, 2) * (2.618*p - 1.618)
}

// bounce searches for the first bounce segment whose start threshold the
// progress has passed. The thresholds fall towards -1/11, so the search
// gives up once the segment width vanishes.
func bounce(p float64) float64 {
	a, b := 0.0, 1.0
	for p < (7-4*a)/11 && b > 1e-9 {
		a += b
		b /= 2
	}
	return b*b - math.Pow((11-6*a-11*p)/4, 2)
}

func elastic(p float64) float64 {
	return math.Pow(2, 10*(p-1)) * math.Cos(20*p*math.Pi/3)
}

// Transition pairs a curve with an easing mode.
type Transition struct {
	Kind Kind
	Mode types.EasingMode
}

var Default = Transition{Kind: Linear, Mode: types.EasingEaseIn}

// Parse reads "kind" or "kind:mode", e.g. "bounce:ease-out". The mode
// defaults to ease-in.
func Parse(s string) (Transition, error) {
	name, mode, found := strings.Cut(s, ":")
	kind, err := ParseKind(name)
	if err != nil {
		return Default, err
	}
	t := Transition{Kind: kind, Mode: types.EasingEaseIn}
	if found {
		t.Mode = types.EasingMode(strings.ToLower(strings.TrimSpace(mode)))
		if !t.Mode.Valid() {
			return Default, fmt.Errorf("unknown easing mode %q", mode)
		}
	}
	return t, nil
}

func (t Transition) String() string {
	return t.Kind.String() + ":" + string(t.Mode)
}

// At evaluates the transition for progress. An empty mode is ease-in.
func (t Transition) At(progress float64) float64 {
	pos := t.Kind.Func()
	switch t.Mode {
	case types.EasingEaseOut:
		return EaseOut(pos, progress)
	case types.EasingEaseInOut:
		return EaseInOut(pos, progress)
	default:
		return EaseIn(pos, progress)
	}
}

// Tween adapts the transition to gween's easing signature: elapsed time t,
// begin value b, total change c and duration d.
func (t Transition) Tween() ease.TweenFunc {
	return func(elapsed, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(t.At(float64(elapsed/d)))
	}
}
