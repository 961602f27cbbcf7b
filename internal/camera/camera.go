package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	// ErrNoDevice reports that the configured capture node does not exist.
	ErrNoDevice = errors.New("capture device not found")
	// ErrPermission reports that the process may not open the capture node.
	ErrPermission = errors.New("capture device permission denied")
	// ErrNotCapture reports a device node that cannot capture video.
	ErrNotCapture = errors.New("device does not support video capture")
	// ErrBusy reports a capture node held exclusively by another process.
	ErrBusy = errors.New("capture device busy")
)

// Info describes an acquired capture device.
type Info struct {
	Path    string `json:"path"`
	Driver  string `json:"driver"`
	Card    string `json:"card"`
	BusInfo string `json:"bus_info"`
}

// Label returns a short human-readable name for the device.
func (i Info) Label() string {
	card := strings.TrimSpace(i.Card)
	if card == "" {
		return i.Path
	}
	if d := strings.TrimSpace(i.Driver); d != "" {
		return fmt.Sprintf("%s (%s)", card, d)
	}
	return card
}

// Stream is a live, video-only capture handle. Close releases the device.
type Stream interface {
	Info() Info
	Close() error
}

// Device opens V4L2 capture nodes.
type Device struct {
	Path string

	// querier is swapped in tests to avoid touching real hardware.
	querier func(path string) (*deviceStream, error)
}

// NewDevice returns a Device for the given node path.
func NewDevice(path string) *Device {
	return &Device{Path: strings.TrimSpace(path)}
}

// Acquire opens the capture node and verifies it can deliver video frames.
// The returned stream holds the device open until closed.
func (d *Device) Acquire(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d == nil || d.Path == "" {
		return nil, ErrNoDevice
	}
	if _, err := os.Stat(d.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", d.Path, ErrNoDevice)
		}
		return nil, fmt.Errorf("stat %s: %w", d.Path, err)
	}

	query := d.querier
	if query == nil {
		query = openV4L2
	}
	stream, err := query(d.Path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		_ = stream.Close()
		return nil, err
	}
	return stream, nil
}

type deviceStream struct {
	info Info

	once    sync.Once
	closeFn func() error
	err     error
}

func (s *deviceStream) Info() Info { return s.info }

func (s *deviceStream) Close() error {
	s.once.Do(func() {
		if s.closeFn != nil {
			s.err = s.closeFn()
		}
	})
	return s.err
}
