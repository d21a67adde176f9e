package model

import (
	"testing"
	"time"
)

func TestLine(t *testing.T) {
	ts := time.Date(2026, 2, 17, 12, 0, 0, 123_000_000, time.UTC)
	e := NewEntry(Submission{Level: "error", Message: "disk full"}, "127.0.0.1", ts)

	want := "[2026-02-17T12:00:00.123Z] [127.0.0.1] error: disk full"
	if got := e.Line(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatTimeConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2026, 2, 17, 14, 0, 0, 0, loc)

	if got := FormatTime(ts); got != "2026-02-17T12:00:00.000Z" {
		t.Errorf("expected UTC timestamp, got %q", got)
	}
}

func TestStartMarker(t *testing.T) {
	ts := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	want := "=== Server started at 2026-02-17T12:00:00.000Z ==="
	if got := StartMarker(ts); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
