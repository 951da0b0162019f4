package widget

import (
	"image"
	"testing"
	"time"

	"github.com/matjam/smoothtft/internal/transitions"
	"github.com/stretchr/testify/assert"
)

func newProgress(h *harness, duration time.Duration) *ProgressBar {
	return NewProgressBar(h.d, "load", image.Rect(0, 0, 104, 10), ProgressOptions{
		Color:      blue,
		Background: white,
		Duration:   duration,
		Interval:   100 * time.Millisecond,
		Transition: transitions.Default,
	})
}

func TestProgressTweensToValue(t *testing.T) {
	h := newHarness(t, 110, 10)
	p := newProgress(h, time.Second)
	assert.Equal(t, "progress", p.Kind())

	p.Start(h.d.Context())
	h.step(0)
	assert.Equal(t, 0.0, p.Shown())

	p.SetValue(100)
	assert.True(t, p.Animating())
	assert.Equal(t, 100.0, p.Value())

	h.step(500 * time.Millisecond)
	assert.InDelta(t, 50, p.Shown(), 0.01)

	h.step(600 * time.Millisecond)
	assert.False(t, p.Animating())
	assert.Equal(t, 100.0, p.Shown())
	assert.Equal(t, blue, h.mem.At(100, 5))
}

func TestProgressWithoutDurationJumps(t *testing.T) {
	h := newHarness(t, 110, 10)
	p := newProgress(h, 0)

	p.SetValue(40)
	assert.False(t, p.Animating())
	assert.Equal(t, 40.0, p.Shown())
}

func TestProgressClampsValue(t *testing.T) {
	h := newHarness(t, 110, 10)
	p := newProgress(h, 0)

	p.SetValue(150)
	assert.Equal(t, 100.0, p.Value())
	p.SetValue(-3)
	assert.Equal(t, 0.0, p.Value())
}

func TestProgressPaintsOnlyWhenChanged(t *testing.T) {
	h := newHarness(t, 110, 10)
	p := newProgress(h, 0)

	p.Start(h.d.Context())
	h.step(0)
	assert.Equal(t, 1, h.mem.Presents())

	h.step(100 * time.Millisecond)
	h.step(100 * time.Millisecond)
	assert.Equal(t, 1, h.mem.Presents())

	p.SetValue(50)
	h.step(100 * time.Millisecond)
	assert.Equal(t, 2, h.mem.Presents())
	// half of the 100 pixel inner area
	assert.Equal(t, blue, h.mem.At(40, 5))
	assert.Equal(t, white, h.mem.At(70, 5))
}
