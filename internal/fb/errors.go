package fb

import "errors"

var (
	ErrClosed      = errors.New("framebuffer closed")
	ErrUnsupported = errors.New("framebuffer not supported on this platform")
	ErrPixelFormat = errors.New("unsupported framebuffer pixel format")
)

// DefaultDevice is used when neither the configuration nor the FRAMEBUFFER
// environment variable name a device.
const DefaultDevice = "/dev/fb0"
