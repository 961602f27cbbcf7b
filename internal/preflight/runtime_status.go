package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sysVideo4Linux is the sysfs class directory for V4L2 nodes.
var sysVideo4Linux = "/sys/class/video4linux"

// CameraProbe reports what sysfs knows about a capture node without opening it.
type CameraProbe struct {
	Detected bool
	Device   string
	Name     string
}

// ProbeCamera looks up the capture node's sysfs name.
func ProbeCamera(device string) CameraProbe {
	device = strings.TrimSpace(device)
	if device == "" {
		device = "/dev/video0"
	}
	if _, err := os.Stat(device); err != nil {
		return CameraProbe{Device: device}
	}
	probe := CameraProbe{Detected: true, Device: device, Name: "Unknown"}
	data, err := os.ReadFile(filepath.Join(sysVideo4Linux, filepath.Base(device), "name"))
	if err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			probe.Name = name
		}
	}
	return probe
}

// CameraDetail renders a display-friendly summary for status UIs.
func (p CameraProbe) CameraDetail() string {
	if !p.Detected {
		return "No webcam detected"
	}
	return fmt.Sprintf("'%s' on %s", p.Name, p.Device)
}
