package netspeed

import (
	"errors"
	"testing"
	"time"
)

func TestClassifyBands(t *testing.T) {
	tests := []struct {
		name     string
		bps      float64
		value    string
		unit     Unit
		severity Severity
	}{
		{"zero", 0, "0.00 Kbps", UnitKbps, SeverityRed},
		{"slow", 512_000, "512.00 Kbps", UnitKbps, SeverityRed},
		{"just below mega", 999_999, "1000.00 Kbps", UnitKbps, SeverityRed},
		{"mega boundary", 1e6, "1.00 Mbps", UnitMbps, SeverityOrange},
		{"typical broadband", 5e7, "50.00 Mbps", UnitMbps, SeverityOrange},
		{"giga boundary", 1e9, "1.00 Gbps", UnitGbps, SeverityGreen},
		{"fiber", 2.5e9, "2.50 Gbps", UnitGbps, SeverityGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, unit, severity := Classify(tt.bps)
			if value != tt.value || unit != tt.unit || severity != tt.severity {
				t.Fatalf("Classify(%v) = %q %s %s, want %q %s %s", tt.bps, value, unit, severity, tt.value, tt.unit, tt.severity)
			}
		})
	}
}

func TestErrorSample(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sample := ErrorSample(errors.New("dial tcp: refused"), at)
	if sample.Value != ErrorValue || sample.Severity != SeverityRed {
		t.Fatalf("unexpected error sample %+v", sample)
	}
	if !sample.Failed() {
		t.Fatal("expected Failed to report true")
	}
	if sample.Error != "dial tcp: refused" || !sample.At.Equal(at) {
		t.Fatalf("unexpected error details %+v", sample)
	}
	if NewSample(5e7, at).Failed() {
		t.Fatal("successful sample must not report failure")
	}
}
