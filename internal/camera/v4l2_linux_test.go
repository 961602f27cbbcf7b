//go:build linux

package camera

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireRegularFileIsNotCapture(t *testing.T) {
	node := filepath.Join(t.TempDir(), "video0")
	if err := os.WriteFile(node, []byte("not a device"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewDevice(node).Acquire(context.Background())
	if !errors.Is(err, ErrNotCapture) {
		t.Fatalf("expected ErrNotCapture, got %v", err)
	}
}

func TestCanCaptureHonoursDeviceCaps(t *testing.T) {
	tests := []struct {
		name string
		cap  v4l2Capability
		want bool
	}{
		{"capture", v4l2Capability{Capabilities: capVideoCapture}, true},
		{"mplane", v4l2Capability{Capabilities: capVideoCaptureMplane}, true},
		{"metadata node", v4l2Capability{Capabilities: capDeviceCaps | capVideoCapture, DeviceCaps: 0x00800000}, false},
		{"device caps capture", v4l2Capability{Capabilities: capDeviceCaps, DeviceCaps: capVideoCapture}, true},
		{"output only", v4l2Capability{Capabilities: 0x2}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cap.canCapture(); got != tc.want {
				t.Fatalf("canCapture() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCString(t *testing.T) {
	var buf [16]byte
	copy(buf[:], "uvcvideo")
	if got := cString(buf[:]); got != "uvcvideo" {
		t.Fatalf("unexpected %q", got)
	}
}
