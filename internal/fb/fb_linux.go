//go:build linux

package fb

import (
	"image"
	"os"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"
)

const (
	ioctlGetVScreenInfo = 0x4600
	ioctlGetFScreenInfo = 0x4602

	typePackedPixels = 0
)

type bitfield struct {
	offset   uint32
	length   uint32
	msbRight uint32
}

// fb_var_screeninfo
type varScreenInfo struct {
	xres, yres               uint32
	xresVirtual, yresVirtual uint32
	xoffset, yoffset         uint32
	bitsPerPixel             uint32
	grayscale                uint32
	red, green, blue, transp bitfield
	nonstd                   uint32
	activate                 uint32
	height, width            uint32
	accelFlags               uint32
	pixclock                 uint32
	leftMargin, rightMargin  uint32
	upperMargin, lowerMargin uint32
	hsyncLen, vsyncLen       uint32
	sync, vmode, rotate      uint32
	colorspace               uint32
	reserved                 [4]uint32
}

// fb_fix_screeninfo
type fixScreenInfo struct {
	id           [16]byte
	smemStart    uintptr
	smemLen      uint32
	typ          uint32
	typeAux      uint32
	visual       uint32
	xpanstep     uint16
	ypanstep     uint16
	ywrapstep    uint16
	lineLength   uint32
	mmioStart    uintptr
	mmioLen      uint32
	accel        uint32
	capabilities uint16
	reserved     [2]uint16
}

// Device is a memory mapped framebuffer.
type Device struct {
	path   string
	file   *os.File
	mem    []byte
	width  int
	height int
	stride int
	format Format

	mu     sync.Mutex
	closed bool
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Open maps the framebuffer at path. An empty path uses $FRAMEBUFFER, then
// DefaultDevice.
func Open(path string) (*Device, error) {
	if path == "" {
		path = os.Getenv("FRAMEBUFFER")
	}
	if path == "" {
		path = DefaultDevice
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.WrapPrefix(err, "open "+path, 0)
	}

	var (
		vinfo varScreenInfo
		finfo fixScreenInfo
	)
	if err := ioctl(f.Fd(), ioctlGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		f.Close()
		return nil, errors.WrapPrefix(err, "FBIOGET_VSCREENINFO "+path, 0)
	}
	if err := ioctl(f.Fd(), ioctlGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		f.Close()
		return nil, errors.WrapPrefix(err, "FBIOGET_FSCREENINFO "+path, 0)
	}

	format := Format{
		BitsPerPixel: int(vinfo.bitsPerPixel),
		Red:          Bitfield{Offset: vinfo.red.offset, Length: vinfo.red.length},
		Green:        Bitfield{Offset: vinfo.green.offset, Length: vinfo.green.length},
		Blue:         Bitfield{Offset: vinfo.blue.offset, Length: vinfo.blue.length},
		Alpha:        Bitfield{Offset: vinfo.transp.offset, Length: vinfo.transp.length},
	}
	if finfo.typ != typePackedPixels || vinfo.nonstd != 0 || !format.supported() {
		f.Close()
		return nil, errors.WrapPrefix(ErrPixelFormat, path, 0)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(finfo.smemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.WrapPrefix(err, "mmap "+path, 0)
	}

	d := &Device{
		path:   path,
		file:   f,
		mem:    mem,
		width:  int(vinfo.xres),
		height: int(vinfo.yres),
		stride: int(finfo.lineLength),
		format: format,
	}
	log.Debugf("framebuffer %s: %dx%d %dbpp stride %d", path, d.width, d.height, format.BitsPerPixel, d.stride)
	return d, nil
}

func (d *Device) Path() string   { return d.path }
func (d *Device) Format() Format { return d.format }

func (d *Device) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Present copies img into device memory.
func (d *Device) Present(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.format.Convert(d.mem, d.stride, img)
	return nil
}

// Close unmaps the device memory and closes the device. It is safe to call
// more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	var err error
	if e := unix.Munmap(d.mem); e != nil {
		err = errors.WrapPrefix(e, "munmap "+d.path, 0)
	}
	d.mem = nil
	if e := d.file.Close(); e != nil && err == nil {
		err = errors.WrapPrefix(e, "close "+d.path, 0)
	}
	return err
}
