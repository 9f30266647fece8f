package syslog

import (
	"fmt"
	"testing"
	"time"
)

func TestParseLine(t *testing.T) {
	rec, err := ParseLine("<5>Jan 1 00:00:10 hostA longer message here")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if rec.Host != "hostA" {
		t.Errorf("Expected host 'hostA', got %q", rec.Host)
	}
	if rec.Emergency {
		t.Errorf("Priority 5 should not be flagged as emergency")
	}
	if rec.Length != len("longer message here") {
		t.Errorf("Expected length %d, got %d", len("longer message here"), rec.Length)
	}
	want := time.Date(0, time.January, 1, 0, 0, 10, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("Expected timestamp %v, got %v", want, rec.Timestamp)
	}
}

func TestParseLineDoubledSpaceDay(t *testing.T) {
	// RFC3164 pads single-digit days with a space: "Jan  1".
	rec, err := ParseLine("<34>Oct  7 12:01:02 web01 session opened")
	if err != nil {
		t.Fatalf("ParseLine failed on padded day: %v", err)
	}
	if rec.Timestamp.Day() != 7 || rec.Timestamp.Month() != time.October {
		t.Errorf("Unexpected timestamp: %v", rec.Timestamp)
	}
}

func TestParseLineSeverityBoundary(t *testing.T) {
	// Severity is the low 3 bits of the priority; 0 and 1 are critical.
	for sev := 0; sev < 8; sev++ {
		for _, facility := range []int{0, 1, 23} {
			pri := facility*8 + sev
			line := fmt.Sprintf("<%d>Jan 1 00:00:05 hostA test", pri)
			rec, err := ParseLine(line)
			if err != nil {
				t.Fatalf("ParseLine(%q) failed: %v", line, err)
			}
			if rec.Emergency != (sev < 2) {
				t.Errorf("pri=%d: expected emergency=%v, got %v", pri, sev < 2, rec.Emergency)
			}
		}
	}
}

func TestParseLineRejectsMalformed(t *testing.T) {
	malformed := []string{
		"",
		"not a syslog line",
		"<abc>Jan 1 00:00:05 hostA test",   // non-numeric priority
		"Jan 1 00:00:05 hostA test",        // missing priority tag
		"<5>Jan 1 00:00:05",                // missing host and message
		"<5>Feb 30 00:00:05 hostA test",    // invalid calendar date
		"<5>Xyz 1 00:00:05 hostA test",     // invalid month
		"<5>Jan 1 25:00:05 hostA test",     // invalid hour
	}
	for _, line := range malformed {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("ParseLine(%q) should have failed", line)
		}
	}
}

func TestParseLineEmptyMessage(t *testing.T) {
	rec, err := ParseLine("<14>Jan 1 00:00:02 hostB ")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if rec.Length != 0 {
		t.Errorf("Expected zero-length message, got %d", rec.Length)
	}
}
