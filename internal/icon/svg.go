package icon

import (
	"image"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// SVG is a vector icon. The last rasterization is cached.
type SVG struct {
	icon  *oksvg.SvgIcon
	w, h  float64
	cache *image.RGBA
}

func LoadSVG(r io.Reader) (*SVG, error) {
	ic, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	w, h := ic.ViewBox.W, ic.ViewBox.H
	if !(w > 0 && h > 0) {
		return nil, &LoadError{Err: ErrNoIntrinsicSize}
	}
	return &SVG{icon: ic, w: w, h: h}, nil
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func (s *SVG) Rasterize(w, h int) *image.RGBA {
	if s.cache != nil && s.cache.Rect.Dx() == w && s.cache.Rect.Dy() == h {
		return s.cache
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	s.icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	s.icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	s.cache = img
	return img
}
