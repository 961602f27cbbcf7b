package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// StatusResponse is the payload of GET /api/status.
type StatusResponse struct {
	SessionID string        `json:"sessionId,omitempty"`
	Mounted   bool          `json:"mounted"`
	Camera    CameraStatus  `json:"camera"`
	Battery   BatteryStatus `json:"battery"`
	Speaker   SpeakerStatus `json:"speaker"`
	Network   NetworkStatus `json:"network"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
}

// CameraStatus describes the webcam section.
type CameraStatus struct {
	State   string `json:"state"`
	Live    bool   `json:"live"`
	Device  string `json:"device,omitempty"`
	Label   string `json:"label,omitempty"`
	Driver  string `json:"driver,omitempty"`
	BusInfo string `json:"busInfo,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatteryStatus describes the battery section. Percent is omitted when the
// level is unknown.
type BatteryStatus struct {
	State   string `json:"state"`
	Percent *int   `json:"percent,omitempty"`
	Supply  string `json:"supply,omitempty"`
	Display string `json:"display"`
}

// SpeakerStatus describes the speaker test section.
type SpeakerStatus struct {
	State       string `json:"state"`
	Playback    string `json:"playback"`
	Playing     bool   `json:"playing"`
	Button      string `json:"button"`
	Initialized bool   `json:"initialized"`
	Error       string `json:"error,omitempty"`
}

// NetworkStatus describes the network speed section.
type NetworkStatus struct {
	State         string  `json:"state"`
	Display       string  `json:"display"`
	BitsPerSecond float64 `json:"bitsPerSecond,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	Severity      string  `json:"severity,omitempty"`
	Error         string  `json:"error,omitempty"`
	SampledAt     string  `json:"sampledAt,omitempty"`
	Countdown     int     `json:"countdown"`
	Interval      int     `json:"interval"`
	Probing       bool    `json:"probing"`
	Samples       int     `json:"samples"`
}

// SpeakerToggleResponse is the payload of POST /api/speaker/toggle.
type SpeakerToggleResponse struct {
	Playback string `json:"playback"`
	Playing  bool   `json:"playing"`
}

// HealthResponse is the payload of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
