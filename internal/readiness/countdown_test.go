package readiness

import (
	"testing"
	"time"
)

func TestCountdownStaysInRange(t *testing.T) {
	c := NewCountdown(3 * time.Second)
	if c.Remaining() != 3 || c.Interval() != 3 {
		t.Fatalf("unexpected start %d/%d", c.Remaining(), c.Interval())
	}
	for _, want := range []int{2, 1, 0, 0, 0} {
		if got := c.Tick(); got != want {
			t.Fatalf("Tick() = %d, want %d", got, want)
		}
	}
	if got := c.Reset(); got != 3 {
		t.Fatalf("Reset() = %d, want 3", got)
	}
}

func TestCountdownSubSecondInterval(t *testing.T) {
	c := NewCountdown(500 * time.Millisecond)
	if c.Tick() != 0 || c.Reset() != 0 {
		t.Fatal("expected zero-length countdown")
	}
}
