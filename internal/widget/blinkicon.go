package widget

import (
	"image"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/matjam/smoothtft/internal/icon"
)

type BlinkIconOptions struct {
	Background color.Color
	OnTime     time.Duration
	OffTime    time.Duration
}

// BlinkIcon alternates between showing an icon and painting its box with
// the background colour.
type BlinkIcon struct {
	Base
	icon       icon.Icon
	background color.Color
	onTime     time.Duration
	offTime    time.Duration

	visible bool
	shows   int
}

func NewBlinkIcon(host Host, name string, ic icon.Icon, bounds image.Rectangle, o BlinkIconOptions) *BlinkIcon {
	if o.Background == nil {
		o.Background = color.White
	}
	if o.OnTime <= 0 {
		o.OnTime = 500 * time.Millisecond
	}
	if o.OffTime <= 0 {
		o.OffTime = 500 * time.Millisecond
	}
	return &BlinkIcon{
		Base:       newBase(host, name, bounds),
		icon:       ic,
		background: o.Background,
		onTime:     o.OnTime,
		offTime:    o.OffTime,
	}
}

func (b *BlinkIcon) Kind() string { return "blink" }

// Visible reports whether the icon is currently painted.
func (b *BlinkIcon) Visible() bool { return b.visible }

// Shows counts how many times the icon has been painted.
func (b *BlinkIcon) Shows() int { return b.shows }

func (b *BlinkIcon) Start(dc *gg.Context) {
	gen, ok := b.arm()
	if !ok {
		return
	}
	b.host.ScheduleSoon(func() { b.show(dc, gen) })
}

func (b *BlinkIcon) show(dc *gg.Context, gen uint64) {
	if !b.alive(gen) {
		return
	}
	b.paintIcon(dc)
	b.host.Blit()
	b.host.ScheduleAfter(b.onTime, func() { b.hide(dc, gen) })
}

func (b *BlinkIcon) hide(dc *gg.Context, gen uint64) {
	if !b.alive(gen) {
		return
	}
	b.paintBackground(dc)
	b.host.Blit()
	b.host.ScheduleAfter(b.offTime, func() { b.show(dc, gen) })
}

func (b *BlinkIcon) paintIcon(dc *gg.Context) {
	b.fill(dc, b.background)
	icon.Draw(dc, b.icon, b.bounds, icon.Options{Enlarge: true})
	b.visible = true
	b.shows++
}

func (b *BlinkIcon) paintBackground(dc *gg.Context) {
	b.fill(dc, b.background)
	b.visible = false
}

func (b *BlinkIcon) Draw(dc *gg.Context) {
	if b.visible {
		b.paintIcon(dc)
		return
	}
	b.paintBackground(dc)
}

// SetColors changes the background colour. The icon has no foreground
// colour of its own, so fg is ignored.
func (b *BlinkIcon) SetColors(fg, bg color.Color) {
	if bg != nil {
		b.background = bg
	}
}
