package widget

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/fogleman/gg"
	"github.com/matjam/smoothtft/internal/transitions"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// gap separates the end of the text from its repeat while scrolling.
const gap = "   "

type MarqueeOptions struct {
	Text       string
	Face       font.Face
	FontSize   float64 // used to place the baseline; defaults to the face height
	Color      color.Color
	Background color.Color
	// Step is the scroll distance per frame, in characters or, when Smooth
	// is set, pixels.
	Step       int
	Interval   time.Duration
	Transition transitions.Transition
	Smooth     bool
}

// Marquee shows a line of text, scrolling it when it does not fit its box.
//
// The scroll offset follows the transition over one cycle:
//
//	offset = floor(maxOffset * transition(elapsed / transitionDuration))
//
// where maxOffset is the length of the text plus the gap, in characters or
// pixels, and transitionDuration = interval * maxOffset / step.
type Marquee struct {
	*Animated

	text     string
	face     font.Face
	fontSize float64
	fg, bg   color.Color
	step     int
	trans    transitions.Transition
	smooth   bool

	lastFG, lastBG color.Color
	dirty          bool
	prepared       bool

	shouldScroll       bool
	maxOffset          int
	transitionDuration time.Duration
	cycleStart         time.Time
	cycling            bool
	offset             int
	shrunk             string

	strip *image.RGBA
}

func NewMarquee(host Host, name string, bounds image.Rectangle, o MarqueeOptions) *Marquee {
	if o.Step <= 0 {
		o.Step = 1
	}
	if o.Interval <= 0 {
		o.Interval = 50 * time.Millisecond
	}
	if o.Color == nil {
		o.Color = color.Black
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.FontSize <= 0 {
		o.FontSize = float64(o.Face.Metrics().Height.Ceil())
	}

	m := &Marquee{
		text:     o.Text,
		face:     o.Face,
		fontSize: o.FontSize,
		fg:       o.Color,
		bg:       o.Background,
		lastFG:   o.Color,
		lastBG:   o.Background,
		step:     o.Step,
		trans:    o.Transition,
		smooth:   o.Smooth,
	}
	m.Animated = NewAnimated(host, name, bounds, o.Interval, m.frame)
	return m
}

func (m *Marquee) Kind() string { return "marquee" }

func (m *Marquee) Text() string { return m.text }

func (m *Marquee) Smooth() bool { return m.smooth }

// ShouldScroll reports whether the text is wider than the box. It is
// computed when the marquee starts.
func (m *Marquee) ShouldScroll() bool { return m.shouldScroll }

func (m *Marquee) Offset() int { return m.offset }

func (m *Marquee) MaxOffset() int { return m.maxOffset }

func (m *Marquee) TransitionDuration() time.Duration { return m.transitionDuration }

func (m *Marquee) Colors() (fg, bg color.Color) { return m.fg, m.bg }

func (m *Marquee) fullText() string {
	return m.text + gap + m.text
}

func (m *Marquee) advance(s string) float64 {
	return float64(font.MeasureString(m.face, s)) / 64
}

func (m *Marquee) Start(dc *gg.Context) {
	if m.showing {
		return
	}
	m.prepare()
	m.Animated.Start(dc)
}

func (m *Marquee) Stop() {
	m.Animated.Stop()
	m.cycling = false
}

// Render draws a single frame without scheduling another.
func (m *Marquee) Render(dc *gg.Context) {
	if !m.prepared {
		m.prepare()
	}
	m.frame(dc)
}

// Draw repaints the current frame.
func (m *Marquee) Draw(dc *gg.Context) {
	m.dirty = true
	m.Render(dc)
}

// prepare measures the text and resets the scroll cycle.
func (m *Marquee) prepare() {
	m.cycling = false
	m.offset = 0
	m.dirty = true
	m.prepared = true

	if m.smooth {
		m.maxOffset = int(m.advance(m.text + gap))
		m.shouldScroll = m.advance(m.text) > float64(m.bounds.Dx())
		m.renderStrip()
	} else {
		m.maxOffset = len([]rune(m.text)) + len(gap)
		m.shrunk = m.shrink(m.text)
		m.shouldScroll = m.shrunk != m.text
	}
	m.transitionDuration = time.Duration(float64(m.interval) * float64(m.maxOffset) / float64(m.step))
}

// shrink strips trailing runes until s fits the box width.
func (m *Marquee) shrink(s string) string {
	r := []rune(s)
	for len(r) > 0 && m.advance(string(r)) > float64(m.bounds.Dx()) {
		r = r[:len(r)-1]
	}
	return string(r)
}

// visible is the text starting at the current character offset.
func (m *Marquee) visible() string {
	if m.offset <= 0 {
		return m.text
	}
	r := []rune(m.fullText())
	return string(r[min(m.offset, len(r)):])
}

// renderStrip draws the text once into an off-screen strip. Frames copy
// slices of it.
func (m *Marquee) renderStrip() {
	s := m.text
	if m.shouldScroll {
		s = m.fullText()
	}
	metrics := m.face.Metrics()
	w := int(math.Ceil(m.advance(m.fullText())))
	h := (metrics.Ascent + metrics.Descent).Ceil()
	m.strip = image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))

	sc := gg.NewContextForRGBA(m.strip)
	sc.SetColor(m.bg)
	sc.Clear()
	sc.SetFontFace(m.face)
	sc.SetColor(m.fg)
	sc.DrawString(s, 0, float64(metrics.Ascent.Ceil()))
}

func (m *Marquee) colorChanged() bool {
	return !sameColor(m.fg, m.lastFG) || !sameColor(m.bg, m.lastBG)
}

func (m *Marquee) frame(dc *gg.Context) {
	if m.colorChanged() || m.shouldScroll || m.dirty {
		m.fill(dc, m.bg)
		if m.smooth {
			m.copyStrip(dc)
		} else {
			m.shrunk = m.shrink(m.visible())
			dc.SetFontFace(m.face)
			dc.SetColor(m.fg)
			y := float64(m.bounds.Min.Y) + (float64(m.bounds.Dy())-m.fontSize)/2 + m.fontSize - 2
			dc.DrawString(m.shrunk, float64(m.bounds.Min.X), y)
		}
		m.host.Blit()
		m.dirty = false
	}

	if m.shouldScroll {
		m.scroll(m.host.Now())
	}

	m.lastFG, m.lastBG = m.fg, m.bg
}

func (m *Marquee) copyStrip(dc *gg.Context) {
	dst, ok := dc.Image().(draw.Image)
	if !ok || m.strip == nil {
		return
	}
	sw, sh := m.strip.Rect.Dx(), m.strip.Rect.Dy()
	off := min(max(m.offset, 0), sw)
	w := min(m.bounds.Dx(), sw-off)

	x := m.bounds.Min.X
	y := m.bounds.Min.Y + (m.bounds.Dy()-sh)/2 + 1
	r := image.Rect(x, y, x+w, y+sh)
	clipped := r.Intersect(m.bounds)
	if clipped.Empty() {
		return
	}
	sp := image.Pt(off+clipped.Min.X-r.Min.X, clipped.Min.Y-r.Min.Y)
	draw.Draw(dst, clipped, m.strip, sp, draw.Over)
}

// scroll moves the offset along the transition, restarting the cycle once
// transitionDuration has passed.
func (m *Marquee) scroll(now time.Time) {
	if !m.cycling {
		m.cycleStart = now
		m.cycling = true
	}
	elapsed := now.Sub(m.cycleStart)
	if elapsed > m.transitionDuration {
		m.cycleStart = now
		elapsed = 0
	}
	m.offset = m.offsetAt(m.progress(elapsed))
}

func (m *Marquee) progress(elapsed time.Duration) float64 {
	if m.transitionDuration <= 0 {
		return 0
	}
	return min(float64(elapsed)/float64(m.transitionDuration), 1)
}

func (m *Marquee) offsetAt(p float64) int {
	return int(math.Floor(float64(m.maxOffset) * m.trans.At(p)))
}

func (m *Marquee) ChangeColor(c color.Color) {
	m.lastFG = m.fg
	m.fg = c
	if m.smooth && m.prepared {
		m.renderStrip()
	}
}

func (m *Marquee) ChangeBackground(c color.Color) {
	m.lastBG = m.bg
	m.bg = c
	if m.smooth && m.prepared {
		m.renderStrip()
	}
}

// SetColors changes the text and background colours. A nil colour is left
// unchanged.
func (m *Marquee) SetColors(fg, bg color.Color) {
	if fg != nil {
		m.ChangeColor(fg)
	}
	if bg != nil {
		m.ChangeBackground(bg)
	}
}

// SetText replaces the text. A showing marquee is measured again and starts
// a new scroll cycle.
func (m *Marquee) SetText(text string) {
	m.text = text
	if m.showing || m.prepared {
		m.prepare()
	}
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}
