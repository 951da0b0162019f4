package widget

import (
	"image"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/matjam/smoothtft/internal/transitions"
	"github.com/tanema/gween"
)

type ProgressOptions struct {
	Value      float64
	Color      color.Color
	Background color.Color
	// Duration is how long the bar takes to animate to a new value. Zero
	// jumps straight to it.
	Duration   time.Duration
	Interval   time.Duration
	Transition transitions.Transition
}

// ProgressBar shows a value between 0 and 100 as a filled bar. SetValue
// animates the fill with a tween.
type ProgressBar struct {
	*Animated

	fg, bg     color.Color
	duration   time.Duration
	transition transitions.Transition

	target float32
	shown  float32
	tween  *gween.Tween
	last   time.Time
	dirty  bool
}

func NewProgressBar(host Host, name string, bounds image.Rectangle, o ProgressOptions) *ProgressBar {
	if o.Color == nil {
		o.Color = color.Black
	}
	if o.Background == nil {
		o.Background = color.White
	}
	v := clampPercent(o.Value)
	p := &ProgressBar{
		fg:         o.Color,
		bg:         o.Background,
		duration:   o.Duration,
		transition: o.Transition,
		target:     v,
		shown:      v,
	}
	p.Animated = NewAnimated(host, name, bounds, o.Interval, p.frame)
	return p
}

func clampPercent(v float64) float32 {
	return float32(min(max(v, 0), 100))
}

func (p *ProgressBar) Kind() string { return "progress" }

// Value is the target value.
func (p *ProgressBar) Value() float64 { return float64(p.target) }

// Shown is the value currently drawn.
func (p *ProgressBar) Shown() float64 { return float64(p.shown) }

// Animating reports whether a tween is in progress.
func (p *ProgressBar) Animating() bool { return p.tween != nil }

func (p *ProgressBar) Start(dc *gg.Context) {
	if p.showing {
		return
	}
	p.last = p.host.Now()
	p.dirty = true
	p.Animated.Start(dc)
}

// SetValue animates the bar from the value shown now to v.
func (p *ProgressBar) SetValue(v float64) {
	p.target = clampPercent(v)
	p.dirty = true
	if p.duration <= 0 || p.target == p.shown {
		p.shown = p.target
		p.tween = nil
		return
	}
	p.tween = gween.New(p.shown, p.target, float32(p.duration.Seconds()), p.transition.Tween())
	p.last = p.host.Now()
}

func (p *ProgressBar) SetColors(fg, bg color.Color) {
	if fg != nil {
		p.fg = fg
	}
	if bg != nil {
		p.bg = bg
	}
	p.dirty = true
}

func (p *ProgressBar) frame(dc *gg.Context) {
	now := p.host.Now()
	dt := now.Sub(p.last)
	p.last = now

	if p.tween != nil {
		cur, done := p.tween.Update(float32(dt.Seconds()))
		p.shown = cur
		if done {
			p.shown = p.target
			p.tween = nil
		}
		p.dirty = true
	}

	if !p.dirty {
		return
	}
	p.paint(dc)
	p.host.Blit()
	p.dirty = false
}

func (p *ProgressBar) paint(dc *gg.Context) {
	b := p.bounds
	p.fill(dc, p.bg)

	dc.SetColor(p.fg)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(b.Min.X)+0.5, float64(b.Min.Y)+0.5, float64(b.Dx())-1, float64(b.Dy())-1)
	dc.Stroke()

	inner := b.Inset(2)
	if inner.Empty() {
		return
	}
	w := float64(inner.Dx()) * float64(p.shown) / 100
	if w <= 0 {
		return
	}
	dc.DrawRectangle(float64(inner.Min.X), float64(inner.Min.Y), w, float64(inner.Dy()))
	dc.Fill()
}

func (p *ProgressBar) Draw(dc *gg.Context) {
	p.paint(dc)
}
