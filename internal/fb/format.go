// Package fb drives a Linux framebuffer device.
//
// The device memory is mapped once at Open; Present converts an RGBA back
// buffer into the device pixel layout described by its Format.
package fb

import (
	"encoding/binary"
	"image"
)

// Bitfield locates one colour channel inside a packed pixel.
type Bitfield struct {
	Offset uint32
	Length uint32
}

// Format describes the packed pixel layout of a framebuffer.
type Format struct {
	BitsPerPixel int
	Red          Bitfield
	Green        Bitfield
	Blue         Bitfield
	Alpha        Bitfield
}

var (
	RGB565 = Format{
		BitsPerPixel: 16,
		Red:          Bitfield{Offset: 11, Length: 5},
		Green:        Bitfield{Offset: 5, Length: 6},
		Blue:         Bitfield{Offset: 0, Length: 5},
	}
	XRGB8888 = Format{
		BitsPerPixel: 32,
		Red:          Bitfield{Offset: 16, Length: 8},
		Green:        Bitfield{Offset: 8, Length: 8},
		Blue:         Bitfield{Offset: 0, Length: 8},
	}
)

func (f Format) BytesPerPixel() int {
	return (f.BitsPerPixel + 7) / 8
}

func (f Format) supported() bool {
	switch f.BytesPerPixel() {
	case 2, 3, 4:
		return true
	}
	return false
}

func field(v uint8, bf Bitfield) uint32 {
	switch {
	case bf.Length == 0:
		return 0
	case bf.Length >= 8:
		return uint32(v) << (bf.Offset + bf.Length - 8)
	default:
		return uint32(v>>(8-bf.Length)) << bf.Offset
	}
}

// Pixel packs one colour into the device layout.
func (f Format) Pixel(r, g, b, a uint8) uint32 {
	return field(r, f.Red) | field(g, f.Green) | field(b, f.Blue) | field(a, f.Alpha)
}

// Convert writes src into dst, a device buffer with the given row stride in
// bytes. Pixels outside either buffer are skipped. Multi-byte pixels are
// stored little endian.
func (f Format) Convert(dst []byte, stride int, src *image.RGBA) {
	bpp := f.BytesPerPixel()
	if bpp == 0 || stride <= 0 {
		return
	}
	b := src.Bounds()
	rows := min(b.Dy(), len(dst)/stride)
	cols := min(b.Dx(), stride/bpp)

	var scratch [4]byte
	for y := 0; y < rows; y++ {
		s := src.Pix[y*src.Stride:]
		d := dst[y*stride:]
		for x := 0; x < cols; x++ {
			p := s[x*4 : x*4+4]
			v := f.Pixel(p[0], p[1], p[2], p[3])
			switch bpp {
			case 2:
				binary.LittleEndian.PutUint16(d[x*2:], uint16(v))
			case 4:
				binary.LittleEndian.PutUint32(d[x*4:], v)
			default:
				binary.LittleEndian.PutUint32(scratch[:], v)
				copy(d[x*bpp:x*bpp+bpp], scratch[:bpp])
			}
		}
	}
}
