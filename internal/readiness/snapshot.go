package readiness

import (
	"strconv"
	"time"

	"meetcheck/internal/camera"
	"meetcheck/internal/netspeed"
	"meetcheck/internal/speaker"
)

// ProbeState is the lifecycle state of one probe section.
type ProbeState string

const (
	ProbePending     ProbeState = "pending"
	ProbeReady       ProbeState = "ready"
	ProbeUnavailable ProbeState = "unavailable"
	ProbeDisabled    ProbeState = "disabled"
)

// BatteryUnavailableMessage is shown when the host reports no battery.
const BatteryUnavailableMessage = "Battery info not available"

// CameraStatus is the webcam section.
type CameraStatus struct {
	State  ProbeState   `json:"state"`
	Device *camera.Info `json:"device,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Live reports whether a capture stream is bound to the preview slot.
func (c CameraStatus) Live() bool { return c.State == ProbeReady && c.Device != nil }

// BatteryStatus is the battery section.
type BatteryStatus struct {
	State   ProbeState `json:"state"`
	Percent *int       `json:"percent,omitempty"`
	Supply  string     `json:"supply,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Display returns the battery text shown to the user.
func (b BatteryStatus) Display() string {
	if b.Percent != nil {
		return strconv.Itoa(*b.Percent) + "%"
	}
	if b.State == ProbePending {
		return ""
	}
	return BatteryUnavailableMessage
}

// SpeakerNotMounted is the PressSpeaker result before Mount. The snapshot
// playback state is left unchanged.
const SpeakerNotMounted speaker.State = "not_mounted"

// SpeakerStatus is the speaker test section.
type SpeakerStatus struct {
	State       ProbeState    `json:"state"`
	Playback    speaker.State `json:"playback"`
	Initialized bool          `json:"initialized"`
	Error       string        `json:"error,omitempty"`
}

// Playing reports whether the test clip is playing.
func (s SpeakerStatus) Playing() bool { return s.Playback == speaker.StatePlaying }

// ButtonLabel returns the toggle caption.
func (s SpeakerStatus) ButtonLabel() string {
	if s.Playing() {
		return "Stop"
	}
	return "Start"
}

// NetworkStatus is the network speed section.
type NetworkStatus struct {
	State     ProbeState       `json:"state"`
	Sample    *netspeed.Sample `json:"sample,omitempty"`
	Countdown int              `json:"countdown"`
	Interval  int              `json:"interval"`
	Probing   bool             `json:"probing"`
	Samples   int              `json:"samples"`
}

// Display returns the speed text, "Measuring..." before the first sample.
func (n NetworkStatus) Display() string {
	if n.Sample == nil {
		return "Measuring..."
	}
	return n.Sample.Value
}

// Snapshot is an immutable copy of the widget state.
type Snapshot struct {
	Version   uint64        `json:"version"`
	Mounted   bool          `json:"mounted"`
	Camera    CameraStatus  `json:"camera"`
	Battery   BatteryStatus `json:"battery"`
	Speaker   SpeakerStatus `json:"speaker"`
	Network   NetworkStatus `json:"network"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Camera.Device != nil {
		dev := *s.Camera.Device
		out.Camera.Device = &dev
	}
	if s.Battery.Percent != nil {
		pct := *s.Battery.Percent
		out.Battery.Percent = &pct
	}
	if s.Network.Sample != nil {
		sample := *s.Network.Sample
		out.Network.Sample = &sample
	}
	return out
}
