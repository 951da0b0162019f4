// Package widget holds the animated widgets drawn on a display.
//
// Widgets are created inert. Start arms a widget by scheduling its first
// draw on the host loop; every draw re-arms the next one. Stop only sets a
// flag, so the callback already in flight observes it and exits without
// rescheduling. Every Start opens a new generation and callbacks left over
// from an older generation exit on their next invocation, so a stop followed
// by a start never leaves two redraw chains running.
//
// Widgets are not safe for concurrent use. All methods must run on the loop
// goroutine of their host.
package widget

import (
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/matjam/smoothtft/internal/loop"
)

var ErrDrawNotImplemented = errors.New("widget: draw function not implemented")

// Host is the display a widget draws on.
type Host interface {
	ScheduleSoon(fn func()) *loop.Handle
	ScheduleAfter(d time.Duration, fn func()) *loop.Handle
	Now() time.Time
	Blit()
	FPS() float64
	Closed() bool
}

type Widget interface {
	Name() string
	Kind() string
	Bounds() image.Rectangle
	Showing() bool
	Start(dc *gg.Context)
	Stop()
	// Draw paints the current state once, without scheduling anything.
	Draw(dc *gg.Context)
}

// Base carries the state every widget shares.
type Base struct {
	name    string
	host    Host
	bounds  image.Rectangle
	showing bool
	stop    bool
	gen     uint64
}

func newBase(host Host, name string, bounds image.Rectangle) Base {
	return Base{name: name, host: host, bounds: bounds}
}

func (b *Base) Name() string            { return b.name }
func (b *Base) Bounds() image.Rectangle { return b.bounds }
func (b *Base) Showing() bool           { return b.showing }
func (b *Base) Host() Host              { return b.host }

// arm opens a new generation. It reports false when the widget is already
// showing.
func (b *Base) arm() (uint64, bool) {
	if b.showing {
		return 0, false
	}
	b.showing = true
	b.stop = false
	b.gen++
	return b.gen, true
}

// alive reports whether a callback of generation gen should keep going.
func (b *Base) alive(gen uint64) bool {
	if gen != b.gen {
		return false
	}
	if b.stop || b.host.Closed() {
		b.showing = false
		return false
	}
	return true
}

func (b *Base) Stop() {
	b.stop = true
	b.showing = false
}

func (b *Base) fill(dc *gg.Context, c color.Color) {
	dc.SetColor(c)
	dc.DrawRectangle(float64(b.bounds.Min.X), float64(b.bounds.Min.Y), float64(b.bounds.Dx()), float64(b.bounds.Dy()))
	dc.Fill()
}

// DrawFunc paints one frame of an animated widget.
type DrawFunc func(dc *gg.Context)

// Animated redraws itself every interval while it is showing.
type Animated struct {
	Base
	interval time.Duration
	draw     DrawFunc
}

// NewAnimated panics with ErrDrawNotImplemented when draw is nil.
func NewAnimated(host Host, name string, bounds image.Rectangle, interval time.Duration, draw DrawFunc) *Animated {
	if draw == nil {
		panic(ErrDrawNotImplemented)
	}
	return &Animated{
		Base:     newBase(host, name, bounds),
		interval: ResolveInterval(host.FPS(), interval),
		draw:     draw,
	}
}

// ResolveInterval picks the frame interval of an animated widget. A forced
// fps sets a lower bound; without either value a frame is drawn every
// second.
func ResolveInterval(fps float64, interval time.Duration) time.Duration {
	var frame time.Duration
	if fps > 0 {
		frame = time.Duration(float64(time.Second) / fps)
	}
	switch {
	case frame > 0 && interval > 0:
		return max(interval, frame)
	case frame > 0:
		return frame
	case interval > 0:
		return interval
	default:
		return time.Second
	}
}

func (a *Animated) Interval() time.Duration { return a.interval }

func (a *Animated) Start(dc *gg.Context) {
	gen, ok := a.arm()
	if !ok {
		return
	}
	a.host.ScheduleSoon(func() { a.show(dc, gen) })
}

func (a *Animated) show(dc *gg.Context, gen uint64) {
	if !a.alive(gen) {
		return
	}
	a.draw(dc)
	a.host.ScheduleAfter(a.interval, func() { a.show(dc, gen) })
}

func (a *Animated) Draw(dc *gg.Context) {
	a.draw(dc)
}
