package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Memory is a Presenter that keeps the last frame in memory. It backs the
// "memory" output and the tests. When snapshot is set, Snapshot writes the
// current frame there as a PNG; Display calls it before blanking on Close.
type Memory struct {
	mu       sync.Mutex
	frame    *image.RGBA
	presents int
	snapshot string
	closed   bool
}

func NewMemory(width, height int, snapshot string) *Memory {
	return &Memory{
		frame:    image.NewRGBA(image.Rect(0, 0, width, height)),
		snapshot: snapshot,
	}
}

func (m *Memory) Bounds() image.Rectangle { return m.frame.Rect }

func (m *Memory) Present(img *image.RGBA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("memory output closed")
	}
	copy(m.frame.Pix, img.Pix)
	m.presents++
	return nil
}

func (m *Memory) Presents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presents
}

// At returns a pixel of the last presented frame.
func (m *Memory) At(x, y int) color.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame.RGBAAt(x, y)
}

// Frame returns a copy of the last presented frame.
func (m *Memory) Frame() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := image.NewRGBA(m.frame.Rect)
	copy(out.Pix, m.frame.Pix)
	return out
}

func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return nil
}

func (m *Memory) Snapshot() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == "" {
		return nil
	}

	f, err := os.Create(m.snapshot)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, m.frame); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	log.Infof("wrote snapshot %s", m.snapshot)
	return nil
}
