package api

import (
	"time"

	"meetcheck/internal/readiness"
	"meetcheck/internal/speaker"
)

// FromSnapshot converts a widget snapshot to its API representation.
func FromSnapshot(snap readiness.Snapshot, sessionID string) StatusResponse {
	resp := StatusResponse{
		SessionID: sessionID,
		Mounted:   snap.Mounted,
		Camera: CameraStatus{
			State: string(snap.Camera.State),
			Live:  snap.Camera.Live(),
			Error: snap.Camera.Error,
		},
		Battery: BatteryStatus{
			State:   string(snap.Battery.State),
			Supply:  snap.Battery.Supply,
			Display: snap.Battery.Display(),
		},
		Speaker: SpeakerStatus{
			State:       string(snap.Speaker.State),
			Playback:    string(snap.Speaker.Playback),
			Playing:     snap.Speaker.Playing(),
			Button:      snap.Speaker.ButtonLabel(),
			Initialized: snap.Speaker.Initialized,
			Error:       snap.Speaker.Error,
		},
		Network: NetworkStatus{
			State:     string(snap.Network.State),
			Display:   snap.Network.Display(),
			Countdown: snap.Network.Countdown,
			Interval:  snap.Network.Interval,
			Probing:   snap.Network.Probing,
			Samples:   snap.Network.Samples,
		},
		UpdatedAt: formatTime(snap.UpdatedAt),
	}
	if dev := snap.Camera.Device; dev != nil {
		resp.Camera.Device = dev.Path
		resp.Camera.Label = dev.Label()
		resp.Camera.Driver = dev.Driver
		resp.Camera.BusInfo = dev.BusInfo
	}
	if pct := snap.Battery.Percent; pct != nil {
		value := *pct
		resp.Battery.Percent = &value
	}
	if sample := snap.Network.Sample; sample != nil {
		resp.Network.BitsPerSecond = sample.BitsPerSecond
		resp.Network.Unit = string(sample.Unit)
		resp.Network.Severity = string(sample.Severity)
		resp.Network.Error = sample.Error
		resp.Network.SampledAt = formatTime(sample.At)
	}
	return resp
}

// FromPlayback converts a toggle result.
func FromPlayback(state speaker.State) SpeakerToggleResponse {
	return SpeakerToggleResponse{
		Playback: string(state),
		Playing:  state == speaker.StatePlaying,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
