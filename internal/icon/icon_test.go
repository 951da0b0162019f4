package icon

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 20">
  <rect x="0" y="0" width="10" height="20" fill="#ff0000"/>
</svg>`

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name         string
		iw, ih       float64
		fw, fh       float64
		enlarge      bool
		wantW, wantH int
	}{
		{"shrink wide frame", 200, 100, 50, 50, false, 50, 25},
		{"shrink tall image", 100, 200, 50, 50, false, 25, 50},
		{"no enlarge keeps small image", 10, 10, 50, 40, false, 10, 10},
		{"enlarge to frame height", 10, 10, 50, 40, true, 40, 40},
		{"enlarge to frame width", 20, 10, 50, 40, true, 50, 25},
		{"truncates", 3, 2, 10, 10, true, 10, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaleToFit(tt.iw, tt.ih, tt.fw, tt.fh, tt.enlarge)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestLoadSVG(t *testing.T) {
	s, err := LoadSVG(strings.NewReader(redSVG))
	require.NoError(t, err)

	w, h := s.Size()
	assert.Equal(t, 10.0, w)
	assert.Equal(t, 20.0, h)

	img := s.Rasterize(5, 10)
	assert.Equal(t, image.Rect(0, 0, 5, 10), img.Bounds())
	c := img.RGBAAt(2, 5)
	assert.Equal(t, uint8(0xff), c.A)
	assert.Greater(t, c.R, c.G)

	assert.Same(t, img, s.Rasterize(5, 10))
}

func TestLoadSVGWithoutSize(t *testing.T) {
	_, err := LoadSVG(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrNoIntrinsicSize)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.svg")
	_, err := Load(path)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCorruptRaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Load(path)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
	assert.Contains(t, err.Error(), path)
}

func TestLoadPicksDecoderByExtension(t *testing.T) {
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "icon.SVG")
	require.NoError(t, os.WriteFile(svgPath, []byte(redSVG), 0o644))
	ic, err := Load(svgPath)
	require.NoError(t, err)
	assert.IsType(t, &SVG{}, ic)

	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	pngPath := filepath.Join(dir, "icon.png")
	require.NoError(t, os.WriteFile(pngPath, buf.Bytes(), 0o644))
	ic, err = Load(pngPath)
	require.NoError(t, err)
	assert.IsType(t, &Raster{}, ic)
	w, h := ic.Size()
	assert.Equal(t, 4.0, w)
	assert.Equal(t, 2.0, h)
}

func TestDrawRaster(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:], []byte{0, 0, 0xff, 0xff})
	}
	r, err := NewRaster(src)
	require.NoError(t, err)

	dc := gg.NewContext(40, 40)
	dc.SetColor(color.White)
	dc.Clear()

	// enlarged to 20x20 and centred in a 20x40 box
	Draw(dc, r, image.Rect(10, 0, 30, 40), Options{Enlarge: true, CenterY: true})
	img := dc.Image().(*image.RGBA)

	assert.Equal(t, color.RGBA{0, 0, 0xff, 0xff}, img.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, img.RGBAAt(20, 5))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, img.RGBAAt(5, 20))
}

func TestNewRasterRejectsEmpty(t *testing.T) {
	_, err := NewRaster(image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrNoIntrinsicSize)
}
