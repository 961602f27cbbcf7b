//go:build linux

package camera

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// VIDIOC_QUERYCAP = _IOR('V', 0, struct v4l2_capability)
	vidiocQueryCap = 0x80685600

	capVideoCapture       = 0x00000001
	capVideoCaptureMplane = 0x00001000
	capDeviceCaps         = 0x80000000
)

// v4l2Capability mirrors struct v4l2_capability from linux/videodev2.h.
type v4l2Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

func (c *v4l2Capability) canCapture() bool {
	caps := c.Capabilities
	if caps&capDeviceCaps != 0 {
		caps = c.DeviceCaps
	}
	return caps&(capVideoCapture|capVideoCaptureMplane) != 0
}

func openV4L2(path string) (*deviceStream, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	var capability v4l2Capability
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), vidiocQueryCap, uintptr(unsafe.Pointer(&capability))); errno != 0 {
		_ = unix.Close(fd)
		if errno == unix.ENOTTY || errno == unix.EINVAL {
			return nil, fmt.Errorf("%s: %w", path, ErrNotCapture)
		}
		return nil, fmt.Errorf("query capabilities of %s: %w", path, errno)
	}
	if !capability.canCapture() {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%s: %w", path, ErrNotCapture)
	}

	return &deviceStream{
		info: Info{
			Path:    path,
			Driver:  cString(capability.Driver[:]),
			Card:    cString(capability.Card[:]),
			BusInfo: cString(capability.BusInfo[:]),
		},
		closeFn: func() error { return unix.Close(fd) },
	}, nil
}

func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV), errors.Is(err, unix.ENXIO):
		return fmt.Errorf("%s: %w", path, ErrNoDevice)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%s: %w", path, ErrPermission)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%s: %w", path, ErrBusy)
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
