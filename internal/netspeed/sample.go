package netspeed

import (
	"fmt"
	"time"
)

// Severity is the display color band of a sample.
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityOrange Severity = "orange"
	SeverityGreen  Severity = "green"
)

// Unit is the display unit of a sample.
type Unit string

const (
	UnitKbps Unit = "Kbps"
	UnitMbps Unit = "Mbps"
	UnitGbps Unit = "Gbps"
)

const (
	kilo = 1e3
	mega = 1e6
	giga = 1e9
)

// ErrorValue is the display value of a failed probe.
const ErrorValue = "Error"

// Sample is one recorded network measurement.
type Sample struct {
	BitsPerSecond float64   `json:"bits_per_second"`
	Value         string    `json:"value"`
	Unit          Unit      `json:"unit,omitempty"`
	Severity      Severity  `json:"severity"`
	Error         string    `json:"error,omitempty"`
	At            time.Time `json:"at"`
}

// Failed reports whether the sample records a probe failure.
func (s Sample) Failed() bool { return s.Value == ErrorValue }

// Classify formats a rate in bits per second. Rates on a band boundary fall
// into the higher band.
func Classify(bps float64) (value string, unit Unit, severity Severity) {
	switch {
	case bps < mega:
		unit, severity = UnitKbps, SeverityRed
		value = fmt.Sprintf("%.2f %s", bps/kilo, unit)
	case bps < giga:
		unit, severity = UnitMbps, SeverityOrange
		value = fmt.Sprintf("%.2f %s", bps/mega, unit)
	default:
		unit, severity = UnitGbps, SeverityGreen
		value = fmt.Sprintf("%.2f %s", bps/giga, unit)
	}
	return value, unit, severity
}

// NewSample classifies a successful measurement taken at at.
func NewSample(bps float64, at time.Time) Sample {
	value, unit, severity := Classify(bps)
	return Sample{
		BitsPerSecond: bps,
		Value:         value,
		Unit:          unit,
		Severity:      severity,
		At:            at,
	}
}

// ErrorSample records a failed measurement.
func ErrorSample(err error, at time.Time) Sample {
	s := Sample{Value: ErrorValue, Severity: SeverityRed, At: at}
	if err != nil {
		s.Error = err.Error()
	}
	return s
}
