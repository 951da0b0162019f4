// Package icon loads SVG and raster icons and draws them scaled to fit a
// box while keeping their aspect ratio.
package icon

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
)

var ErrNoIntrinsicSize = errors.New("images without an intrinsic size are not supported")

// LoadError reports an icon that could not be loaded. Loading is never
// retried.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load image: %v", e.Err)
	}
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Icon is an image with an intrinsic size that can be rendered at any size.
type Icon interface {
	Size() (w, h float64)
	Rasterize(w, h int) *image.RGBA
}

type Options struct {
	// Enlarge lets the icon grow past its intrinsic size.
	Enlarge bool
	// CenterY centres the icon vertically in the box.
	CenterY bool
}

// Load reads an icon from path. Files ending in .svg are parsed as SVG, all
// others are decoded as raster images.
func Load(path string) (Icon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var ic Icon
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		ic, err = LoadSVG(f)
	} else {
		ic, err = LoadRaster(f)
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return ic, nil
}

// ScaleToFit returns the size at which an image fits inside the frame
// without changing its aspect ratio. Without enlarge the image only
// shrinks.
func ScaleToFit(imageW, imageH, frameW, frameH float64, enlarge bool) (int, int) {
	imageAspect := imageW / imageH
	frameAspect := frameW / frameH

	maxW, maxH := frameW, frameH
	if !enlarge {
		maxW = min(frameW, imageW)
		maxH = min(frameH, imageH)
	}

	if frameAspect > imageAspect {
		h := maxH
		return int(h * imageAspect), int(h)
	}
	w := maxW
	return int(w), int(w / imageAspect)
}

// Draw renders ic inside box on dc.
func Draw(dc *gg.Context, ic Icon, box image.Rectangle, o Options) {
	iw, ih := ic.Size()
	w, h := ScaleToFit(iw, ih, float64(box.Dx()), float64(box.Dy()), o.Enlarge)
	if w <= 0 || h <= 0 {
		return
	}

	y := box.Min.Y
	if o.CenterY {
		y += (box.Dy() - h) / 2
	}
	dc.DrawImage(ic.Rasterize(w, h), box.Min.X, y)
}
