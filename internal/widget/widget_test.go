package widget

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/fogleman/gg"
	"github.com/jonboulle/clockwork"
	"github.com/matjam/smoothtft/internal/display"
	"github.com/stretchr/testify/assert"
)

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black = color.RGBA{0, 0, 0, 0xff}
	blue  = color.RGBA{0, 0, 0xff, 0xff}
)

type harness struct {
	d     *display.Display
	mem   *display.Memory
	clock *clockwork.FakeClock
}

func newHarness(t *testing.T, w, h int) *harness {
	t.Helper()
	fc := clockwork.NewFakeClock()
	mem := display.NewMemory(w, h, "")
	return &harness{
		d:     display.New(mem, display.Options{Clock: fc}),
		mem:   mem,
		clock: fc,
	}
}

// step advances the clock and runs one loop pass.
func (h *harness) step(d time.Duration) int {
	h.clock.Advance(d)
	return h.d.Loop().RunDue()
}

func TestResolveInterval(t *testing.T) {
	tests := []struct {
		name     string
		fps      float64
		interval time.Duration
		want     time.Duration
	}{
		{"fps slower than interval", 10, 50 * time.Millisecond, 100 * time.Millisecond},
		{"interval slower than fps", 10, 200 * time.Millisecond, 200 * time.Millisecond},
		{"fps only", 20, 0, 50 * time.Millisecond},
		{"interval only", 0, 30 * time.Millisecond, 30 * time.Millisecond},
		{"neither", 0, 0, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveInterval(tt.fps, tt.interval))
		})
	}
}

func TestNewAnimatedPanicsWithoutDraw(t *testing.T) {
	h := newHarness(t, 10, 10)
	assert.PanicsWithValue(t, ErrDrawNotImplemented, func() {
		NewAnimated(h.d, "broken", image.Rect(0, 0, 10, 10), time.Second, nil)
	})
}

func TestAnimatedRedrawsEveryInterval(t *testing.T) {
	h := newHarness(t, 10, 10)
	draws := 0
	a := NewAnimated(h.d, "a", image.Rect(0, 0, 10, 10), 100*time.Millisecond, func(*gg.Context) { draws++ })

	assert.False(t, a.Showing())
	a.Start(h.d.Context())
	assert.True(t, a.Showing())
	assert.Equal(t, 0, draws)

	h.step(0)
	assert.Equal(t, 1, draws)

	h.step(50 * time.Millisecond)
	assert.Equal(t, 1, draws)

	h.step(50 * time.Millisecond)
	assert.Equal(t, 2, draws)
}

func TestAnimatedStartWhileShowingIsNoop(t *testing.T) {
	h := newHarness(t, 10, 10)
	draws := 0
	a := NewAnimated(h.d, "a", image.Rect(0, 0, 10, 10), time.Second, func(*gg.Context) { draws++ })

	a.Start(h.d.Context())
	a.Start(h.d.Context())
	h.step(0)
	assert.Equal(t, 1, draws)
	assert.Equal(t, 1, h.d.Loop().Pending())
}

func TestAnimatedStopIsObservedByNextCallback(t *testing.T) {
	h := newHarness(t, 10, 10)
	draws := 0
	a := NewAnimated(h.d, "a", image.Rect(0, 0, 10, 10), time.Second, func(*gg.Context) { draws++ })

	a.Start(h.d.Context())
	h.step(0)
	a.Stop()
	assert.False(t, a.Showing())

	h.step(time.Second)
	assert.Equal(t, 1, draws)
	assert.Equal(t, 0, h.d.Loop().Pending())
}

func TestAnimatedRestartKeepsSingleChain(t *testing.T) {
	h := newHarness(t, 10, 10)
	draws := 0
	a := NewAnimated(h.d, "a", image.Rect(0, 0, 10, 10), time.Second, func(*gg.Context) { draws++ })

	a.Start(h.d.Context())
	h.step(0)
	a.Stop()
	a.Start(h.d.Context())
	h.step(0)
	assert.Equal(t, 2, draws)

	// the first chain's callback is still queued but belongs to an old
	// generation
	h.step(time.Second)
	assert.Equal(t, 3, draws)
	assert.Equal(t, 1, h.d.Loop().Pending())
	assert.True(t, a.Showing())

	for i := 0; i < 5; i++ {
		h.step(time.Second)
	}
	assert.Equal(t, 8, draws)
}

type closingHost struct {
	*display.Display
	closed bool
}

func (c *closingHost) Closed() bool { return c.closed }

func TestAnimatedStopsWhenHostCloses(t *testing.T) {
	h := newHarness(t, 10, 10)
	host := &closingHost{Display: h.d}
	draws := 0
	a := NewAnimated(host, "a", image.Rect(0, 0, 10, 10), time.Second, func(*gg.Context) { draws++ })

	a.Start(h.d.Context())
	h.step(0)
	host.closed = true
	h.step(time.Second)

	assert.Equal(t, 1, draws)
	assert.False(t, a.Showing())
	assert.Equal(t, 0, h.d.Loop().Pending())
}
