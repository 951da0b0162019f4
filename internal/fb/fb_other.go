//go:build !linux

package fb

import "image"

type Device struct{}

func Open(path string) (*Device, error) {
	return nil, ErrUnsupported
}

func (d *Device) Path() string                  { return "" }
func (d *Device) Format() Format                { return Format{} }
func (d *Device) Bounds() image.Rectangle       { return image.Rectangle{} }
func (d *Device) Present(img *image.RGBA) error { return ErrUnsupported }
func (d *Device) Close() error                  { return nil }
