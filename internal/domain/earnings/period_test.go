package earnings

import (
	"testing"
	"time"
)

func TestPeriodContainsBoundaries(t *testing.T) {
	window := NewPeriod(time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local))

	if !window.Contains(time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatal("expected start of period to be inside")
	}
	if !window.Contains(time.Date(2025, 11, 14, 23, 59, 59, 0, time.Local)) {
		t.Fatal("expected last second of day 14 to be inside")
	}
	if window.Contains(time.Date(2025, 11, 15, 0, 0, 0, 0, time.Local)) {
		t.Fatal("expected day 15 midnight to be outside")
	}
	if window.Contains(time.Date(2025, 10, 31, 23, 59, 59, 0, time.Local)) {
		t.Fatal("expected instant before start to be outside")
	}
}

func TestNewPeriodNormalizesToMidnight(t *testing.T) {
	window := NewPeriod(time.Date(2025, 11, 3, 15, 42, 7, 0, time.Local))
	want := time.Date(2025, 11, 3, 0, 0, 0, 0, time.Local)
	if !window.Start().Equal(want) {
		t.Fatalf("expected start %v, got %v", want, window.Start())
	}
}

func TestPeriodAdvance(t *testing.T) {
	window := NewPeriod(time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local))
	next := window.Advance()

	want := time.Date(2025, 11, 15, 0, 0, 0, 0, time.Local)
	if !next.Start().Equal(want) {
		t.Fatalf("expected advanced start %v, got %v", want, next.Start())
	}
	// Advancing is not idempotent; two calls give two different windows.
	if next.Advance().Start().Equal(next.Start()) {
		t.Fatal("expected a second advance to move again")
	}
	// First instant of the next window is outside the old one.
	if window.Contains(next.Start()) {
		t.Fatal("expected next period start to be outside old period")
	}
}

func TestResetPeriod(t *testing.T) {
	now := time.Date(2025, 11, 20, 17, 3, 0, 0, time.Local)
	window := ResetPeriod(now)
	want := time.Date(2025, 11, 20, 0, 0, 0, 0, time.Local)
	if !window.Start().Equal(want) {
		t.Fatalf("expected reset start %v, got %v", want, window.Start())
	}
}
