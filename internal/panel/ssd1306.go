// Package panel presents frames on an SSD1306 OLED over I2C.
package panel

import (
	"fmt"
	"image"
	"sync"

	"github.com/charmbracelet/log"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

type Options struct {
	// Bus is the I2C bus name; empty selects the first available bus.
	Bus    string
	Width  int
	Height int
	// Rotated flips the panel 180 degrees.
	Rotated bool
}

// OLED is an SSD1306 panel. Frames are converted to 1 bit by the driver,
// which only sends the rectangle that changed.
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev

	mu     sync.Mutex
	closed bool
}

func Open(o Options) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(o.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", o.Bus, err)
	}

	opts := ssd1306.DefaultOpts
	if o.Width > 0 {
		opts.W = o.Width
	}
	if o.Height > 0 {
		opts.H = o.Height
	}
	opts.Rotated = o.Rotated

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to open ssd1306: %w", err)
	}

	log.Debugf("ssd1306 on %s: %v", bus, dev.Bounds())
	return &OLED{bus: bus, dev: dev}, nil
}

func (o *OLED) Bounds() image.Rectangle {
	return o.dev.Bounds()
}

func (o *OLED) Present(img *image.RGBA) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return fmt.Errorf("ssd1306 closed")
	}
	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}

// Close turns the panel off and releases the bus.
func (o *OLED) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true

	if err := o.dev.Halt(); err != nil {
		log.Warnf("failed to halt ssd1306: %v", err)
	}
	return o.bus.Close()
}
