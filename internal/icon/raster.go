package icon

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// Raster is a decoded bitmap icon, resampled with Catmull-Rom when drawn at
// another size.
type Raster struct {
	img   image.Image
	cache *image.RGBA
}

func LoadRaster(r io.Reader) (*Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return NewRaster(img)
}

func NewRaster(img image.Image) (*Raster, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &LoadError{Err: ErrNoIntrinsicSize}
	}
	return &Raster{img: img}, nil
}

func (r *Raster) Size() (float64, float64) {
	b := r.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (r *Raster) Rasterize(w, h int) *image.RGBA {
	if r.cache != nil && r.cache.Rect.Dx() == w && r.cache.Rect.Dy() == h {
		return r.cache
	}
	r.cache = scale(r.img, w, h)
	return r.cache
}

func scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
