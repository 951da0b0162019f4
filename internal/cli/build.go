package cli

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype/truetype"
	"github.com/matjam/smoothtft/internal/cli/cmd/utils"
	"github.com/matjam/smoothtft/internal/display"
	"github.com/matjam/smoothtft/internal/fb"
	"github.com/matjam/smoothtft/internal/icon"
	"github.com/matjam/smoothtft/internal/ipc"
	"github.com/matjam/smoothtft/internal/panel"
	"github.com/matjam/smoothtft/internal/transitions"
	"github.com/matjam/smoothtft/internal/types"
	"github.com/matjam/smoothtft/internal/widget"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (w WidgetConfig) bounds() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height)
}

// optionalColor parses s, returning nil for an empty string so the widget
// default applies.
func optionalColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	c, err := types.ParseColor(s)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func parseTransition(kind, easing string) (transitions.Transition, error) {
	t := transitions.Default
	if kind != "" {
		k, err := transitions.ParseKind(kind)
		if err != nil {
			return t, err
		}
		t.Kind = k
	}
	if easing != "" {
		t.Mode = types.EasingMode(easing)
		if !t.Mode.Valid() {
			return transitions.Default, fmt.Errorf("unknown easing mode %q", easing)
		}
	}
	return t, nil
}

// faces hands out font faces of one font by size.
type faces struct {
	font  *truetype.Font
	cache map[float64]font.Face
}

// loadFont reads the TrueType font at path, or Go Regular when path is
// empty.
func loadFont(path string) (*faces, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(utils.CanonicalPath(path))
		if err != nil {
			return nil, fmt.Errorf("error reading font: %w", err)
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing font %s: %w", path, err)
	}
	return &faces{font: f, cache: make(map[float64]font.Face)}, nil
}

func (f *faces) face(size float64) font.Face {
	if face, ok := f.cache[size]; ok {
		return face
	}
	face := truetype.NewFace(f.font, &truetype.Options{Size: size, Hinting: font.HintingFull})
	f.cache[size] = face
	return face
}

// OpenPresenter opens the output device named by cfg.
func OpenPresenter(cfg *Config) (display.Presenter, error) {
	switch cfg.Output {
	case types.OutputFramebuffer:
		dev, err := fb.Open(cfg.Framebuffer)
		if err != nil {
			return nil, err
		}
		log.Debugf("Framebuffer %s is %d bpp", dev.Path(), dev.Format().BitsPerPixel)
		return dev, nil
	case types.OutputSSD1306:
		oled, err := panel.Open(panel.Options{
			Bus:     cfg.I2C.Bus,
			Width:   cfg.I2C.Width,
			Height:  cfg.I2C.Height,
			Rotated: cfg.I2C.Rotated,
		})
		if err != nil {
			return nil, err
		}
		return oled, nil
	case types.OutputMemory:
		return display.NewMemory(cfg.Width, cfg.Height, utils.CanonicalPath(cfg.Snapshot)), nil
	}
	return nil, fmt.Errorf("unknown output %q", cfg.Output)
}

// BuildWidgets creates the configured widgets on d and registers them with
// m. It returns the widgets to start once the display is running.
func BuildWidgets(d *display.Display, m *ipc.Manager, cfg *Config) ([]widget.Widget, error) {
	var autostart []widget.Widget
	add := func(w widget.Widget, start bool) error {
		if w.Name() == "" {
			return fmt.Errorf("%s widget without a name", w.Kind())
		}
		if err := m.Register(w); err != nil {
			return err
		}
		log.Debugf("Configured %s widget %s at %v", w.Kind(), w.Name(), w.Bounds())
		if start {
			autostart = append(autostart, w)
		}
		return nil
	}

	for _, c := range cfg.Blink {
		w, err := newBlink(d, c)
		if err != nil {
			return nil, fmt.Errorf("blink %s: %w", c.Name, err)
		}
		if err := add(w, c.Autostart); err != nil {
			return nil, err
		}
	}

	if len(cfg.Marquee) > 0 {
		fonts, err := loadFont(cfg.Font)
		if err != nil {
			return nil, err
		}
		for _, c := range cfg.Marquee {
			w, err := newMarquee(d, fonts, cfg.FontSize, c)
			if err != nil {
				return nil, fmt.Errorf("marquee %s: %w", c.Name, err)
			}
			if err := add(w, c.Autostart); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range cfg.Progress {
		w, err := newProgress(d, c)
		if err != nil {
			return nil, fmt.Errorf("progress %s: %w", c.Name, err)
		}
		if err := add(w, c.Autostart); err != nil {
			return nil, err
		}
	}
	return autostart, nil
}

func newBlink(d *display.Display, c BlinkConfig) (*widget.BlinkIcon, error) {
	ic, err := icon.Load(utils.CanonicalPath(c.Icon))
	if err != nil {
		return nil, err
	}
	bg, err := optionalColor(c.Background)
	if err != nil {
		return nil, err
	}
	return widget.NewBlinkIcon(d, c.Name, ic, c.bounds(), widget.BlinkIconOptions{
		Background: bg,
		OnTime:     seconds(c.OnTime),
		OffTime:    seconds(c.OffTime),
	}), nil
}

func newMarquee(d *display.Display, fonts *faces, defaultSize float64, c MarqueeConfig) (*widget.Marquee, error) {
	fg, err := optionalColor(c.Color)
	if err != nil {
		return nil, err
	}
	bg, err := optionalColor(c.Background)
	if err != nil {
		return nil, err
	}
	t, err := parseTransition(c.Transition, c.Easing)
	if err != nil {
		return nil, err
	}
	size := c.FontSize
	if size <= 0 {
		size = defaultSize
	}
	return widget.NewMarquee(d, c.Name, c.bounds(), widget.MarqueeOptions{
		Text:       c.Text,
		Face:       fonts.face(size),
		FontSize:   size,
		Color:      fg,
		Background: bg,
		Step:       c.Step,
		Interval:   seconds(c.Interval),
		Transition: t,
		Smooth:     c.Smooth,
	}), nil
}

func newProgress(d *display.Display, c ProgressConfig) (*widget.ProgressBar, error) {
	fg, err := optionalColor(c.Color)
	if err != nil {
		return nil, err
	}
	bg, err := optionalColor(c.Background)
	if err != nil {
		return nil, err
	}
	t, err := parseTransition(c.Transition, c.Easing)
	if err != nil {
		return nil, err
	}
	return widget.NewProgressBar(d, c.Name, c.bounds(), widget.ProgressOptions{
		Value:      c.Value,
		Color:      fg,
		Background: bg,
		Duration:   seconds(c.Duration),
		Interval:   seconds(c.Interval),
		Transition: t,
	}), nil
}
