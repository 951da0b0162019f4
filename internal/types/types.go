package types

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type EasingMode string

const (
	EasingEaseIn    EasingMode = "ease-in"
	EasingEaseOut   EasingMode = "ease-out"
	EasingEaseInOut EasingMode = "ease-in-out"
)

func (m EasingMode) Valid() bool {
	switch m {
	case EasingEaseIn, EasingEaseOut, EasingEaseInOut:
		return true
	}
	return false
}

// OutputMode selects where the display's back buffer is presented.
type OutputMode string

const (
	OutputFramebuffer OutputMode = "framebuffer"
	OutputSSD1306     OutputMode = "ssd1306"
	OutputMemory      OutputMode = "memory"
)

// ParseColor reads "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
