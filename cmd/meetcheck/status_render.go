package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"meetcheck/internal/deps"
	"meetcheck/internal/netspeed"
	"meetcheck/internal/readiness"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiOrange = "\x1b[38;5;208m"
	ansiBold   = "\x1b[1m"
	ansiClear  = "\x1b[H\x1b[2J"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
	widgetHeading    = "Ready to Meet?"
)

// titleCase builds a fresh Caser per call; a Caser is not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// renderSectionHeader title-cases title.
func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", titleCase(strings.TrimSpace(title)))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func severityColor(severity netspeed.Severity) string {
	switch severity {
	case netspeed.SeverityGreen:
		return ansiGreen
	case netspeed.SeverityOrange:
		return ansiOrange
	case netspeed.SeverityRed:
		return ansiRed
	default:
		return ""
	}
}

// renderWidget draws the full readiness panel for one snapshot.
func renderWidget(snap readiness.Snapshot, colorize bool) string {
	var b strings.Builder
	heading := widgetHeading
	if colorize {
		heading = ansiBold + heading + ansiReset
	}
	b.WriteString(heading)
	b.WriteString("\n\n")

	b.WriteString(titleCase("webcam") + "\n")
	b.WriteString(statusIndent + cameraText(snap.Camera) + "\n\n")

	b.WriteString(titleCase("battery level") + "\n")
	b.WriteString(statusIndent + batteryText(snap.Battery) + "\n\n")

	b.WriteString(titleCase("speaker") + "\n")
	b.WriteString(statusIndent + speakerText(snap.Speaker) + "\n\n")

	b.WriteString(titleCase("network speed") + "\n")
	b.WriteString(statusIndent + networkText(snap.Network, colorize) + "\n\n")

	b.WriteString("s+Enter: start/stop speaker test   q+Enter: quit")
	return b.String()
}

func cameraText(c readiness.CameraStatus) string {
	switch c.State {
	case readiness.ProbeDisabled:
		return "Disabled"
	case readiness.ProbePending:
		return "Waiting for camera..."
	}
	if c.Live() {
		return fmt.Sprintf("Live: %s on %s", c.Device.Label(), c.Device.Path)
	}
	if c.Error != "" {
		return "Unavailable: " + c.Error
	}
	return "Unavailable"
}

func batteryText(b readiness.BatteryStatus) string {
	switch b.State {
	case readiness.ProbeDisabled:
		return "Disabled"
	case readiness.ProbePending:
		return "Checking..."
	}
	return b.Display()
}

func speakerText(s readiness.SpeakerStatus) string {
	switch s.State {
	case readiness.ProbeDisabled:
		return "Disabled"
	case readiness.ProbePending:
		return "Preparing test sound..."
	case readiness.ProbeUnavailable:
		if s.Error != "" {
			return "Unavailable: " + s.Error
		}
		return "Unavailable"
	}
	label := fmt.Sprintf("[%s]", s.ButtonLabel())
	if s.Playing() {
		return label + "  Playing..."
	}
	return label
}

func networkText(n readiness.NetworkStatus, colorize bool) string {
	if n.State == readiness.ProbeDisabled {
		return "Disabled"
	}
	value := n.Display()
	if colorize && n.Sample != nil {
		if color := severityColor(n.Sample.Severity); color != "" {
			value = color + value + ansiReset
		}
	}
	return fmt.Sprintf("%s (updated in %ds)", value, n.Countdown)
}

// snapshotRows flattens a snapshot into Check/Status/Detail rows.
func snapshotRows(snap readiness.Snapshot) [][]string {
	network := snap.Network.Display()
	if snap.Network.State == readiness.ProbeDisabled {
		network = "Disabled"
	} else if snap.Network.Sample != nil && snap.Network.Sample.Error != "" {
		network = fmt.Sprintf("%s (%s)", network, snap.Network.Sample.Error)
	}
	return [][]string{
		{"Webcam", string(snap.Camera.State), cameraText(snap.Camera)},
		{"Battery Level", string(snap.Battery.State), batteryText(snap.Battery)},
		{"Speaker", string(snap.Speaker.State), speakerText(snap.Speaker)},
		{"Network Speed", string(snap.Network.State), network},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	missing := make([]string, 0)
	available := 0
	for _, dep := range statuses {
		if dep.Available {
			available++
			message := "Ready"
			if dep.Path != "" {
				message = fmt.Sprintf("Ready (%s)", dep.Path)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		lines = append(lines, renderStatusLine(dep.Name, statusInfo, detail, colorize))
		missing = append(missing, dep.Name)
	}
	if available == 0 && len(statuses) > 0 {
		lines = append(lines, renderStatusLine("Audio players", statusWarn, fmt.Sprintf("none found (install one of %s)", strings.Join(missing, ", ")), colorize))
	}
	return lines
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
