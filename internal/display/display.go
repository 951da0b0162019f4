// Package display owns the back buffer, the drawing context and the event
// loop of one output device.
//
// All drawing happens into an in-memory RGBA back buffer through a gg
// context. Blit copies the back buffer to the Presenter, either immediately
// or, when a forced fps is configured, on the next fps tick.
package display

import (
	"context"
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/jonboulle/clockwork"
	"github.com/matjam/smoothtft/internal/loop"
)

// Presenter is an output device that receives whole frames.
type Presenter interface {
	Present(img *image.RGBA) error // Copy a frame to the device
	Bounds() image.Rectangle       // Device size in pixels
	Close() error                  // Release the device
}

type Options struct {
	// FPS forces a frame rate. Zero presents on every Blit.
	FPS   float64
	Clock clockwork.Clock
}

type Display struct {
	presenter Presenter
	loop      *loop.Loop
	buf       *image.RGBA
	dc        *gg.Context
	fps       float64

	tick          *loop.Handle
	blitFlag      bool
	closed        bool
	presents      int
	presentErrors int
}

func New(p Presenter, o Options) *Display {
	b := p.Bounds()
	buf := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	fps := o.FPS
	if fps < 0 {
		fps = 0
	}
	return &Display{
		presenter: p,
		loop:      loop.New(o.Clock),
		buf:       buf,
		dc:        gg.NewContextForRGBA(buf),
		fps:       fps,
	}
}

func (d *Display) Width() int  { return d.buf.Rect.Dx() }
func (d *Display) Height() int { return d.buf.Rect.Dy() }

// Context is the drawing context over the back buffer.
func (d *Display) Context() *gg.Context { return d.dc }

// Buffer is the back buffer itself.
func (d *Display) Buffer() *image.RGBA { return d.buf }

func (d *Display) Loop() *loop.Loop { return d.loop }

// FPS returns the forced frame rate, or zero.
func (d *Display) FPS() float64 { return d.fps }

func (d *Display) Closed() bool { return d.closed }

// Presents counts the frames handed to the presenter.
func (d *Display) Presents() int { return d.presents }

func (d *Display) PresentErrors() int { return d.presentErrors }

func (d *Display) Now() time.Time { return d.loop.Now() }

func (d *Display) Clock() clockwork.Clock { return d.loop.Clock() }

func (d *Display) ScheduleSoon(fn func()) *loop.Handle {
	return d.loop.ScheduleSoon(fn)
}

func (d *Display) ScheduleAfter(dur time.Duration, fn func()) *loop.Handle {
	return d.loop.ScheduleAfter(dur, fn)
}

// Post runs fn on the loop goroutine. Safe from any goroutine.
func (d *Display) Post(fn func()) { d.loop.Post(fn) }

// Done is closed when the loop stops.
func (d *Display) Done() <-chan struct{} { return d.loop.Done() }

// Stop makes Run close the display and return. Safe from any goroutine.
func (d *Display) Stop() { d.loop.Stop() }

func (d *Display) present() {
	if d.closed {
		return
	}
	if err := d.presenter.Present(d.buf); err != nil {
		d.presentErrors++
		log.Errorf("failed to present frame: %v", err)
		return
	}
	d.presents++
}

// Blit shows the back buffer. In fps mode it only marks the frame dirty.
func (d *Display) Blit() {
	if d.fps > 0 {
		d.blitFlag = true
		return
	}
	d.present()
}

// ForceBlit shows the back buffer now, even in fps mode.
func (d *Display) ForceBlit() {
	d.present()
}

func (d *Display) fpsInterval() time.Duration {
	return time.Duration(float64(time.Second) / d.fps)
}

func (d *Display) fpsTick() {
	if d.closed {
		return
	}
	if d.blitFlag {
		d.blitFlag = false
		d.present()
	}
	d.tick = d.loop.ScheduleAfter(d.fpsInterval(), d.fpsTick)
}

func (d *Display) startFPS() {
	if d.fps > 0 {
		d.tick = d.loop.ScheduleAfter(d.fpsInterval(), d.fpsTick)
	}
}

// BlankScreen fills the whole back buffer with c.
func (d *Display) BlankScreen(c color.Color, blit bool) {
	d.dc.SetColor(c)
	d.dc.DrawRectangle(0, 0, float64(d.Width()), float64(d.Height()))
	d.dc.Fill()
	if blit {
		d.Blit()
	}
}

type snapshotter interface {
	Snapshot() error
}

// Close blanks the screen to black and releases the presenter. Calling it
// again does nothing.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	if s, ok := d.presenter.(snapshotter); ok {
		if err := s.Snapshot(); err != nil {
			log.Errorf("%v", err)
		}
	}
	d.BlankScreen(color.Black, false)
	d.ForceBlit()
	d.closed = true
	d.tick.Cancel()
	d.loop.Stop()
	return d.presenter.Close()
}

// Run schedules draw, starts the fps tick and runs the loop until Stop is
// called or ctx is done. The display is closed on every exit path.
func (d *Display) Run(ctx context.Context, draw func(dc *gg.Context)) (err error) {
	defer func() {
		if cerr := d.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if draw != nil {
		d.loop.ScheduleSoon(func() { draw(d.dc) })
	}
	d.startFPS()

	err = d.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}
