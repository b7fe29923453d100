package jobs

import (
	"testing"
	"time"
)

func TestReminderWindowSameDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 13, 0, 0, 0, time.Local)
	lowerDay, lowerClock, upperDay, upperClock := reminderWindow(now)

	if lowerDay != "2026-08-31" || upperDay != "2026-08-31" {
		t.Fatalf("expected both bounds on 2026-08-31, got %s and %s", lowerDay, upperDay)
	}
	if lowerClock != "14:00" || upperClock != "14:05" {
		t.Errorf("got window %s-%s, want 14:00-14:05", lowerClock, upperClock)
	}
}

func TestReminderWindowCrossesMidnight(t *testing.T) {
	// at 22:57 the window is 23:57 today through 00:02 tomorrow;
	// sessions on either side of midnight must both be found
	now := time.Date(2026, 8, 31, 22, 57, 0, 0, time.Local)
	lowerDay, lowerClock, upperDay, upperClock := reminderWindow(now)

	if lowerDay != "2026-08-31" || lowerClock != "23:57" {
		t.Errorf("lower bound %s %s, want 2026-08-31 23:57", lowerDay, lowerClock)
	}
	if upperDay != "2026-09-01" || upperClock != "00:02" {
		t.Errorf("upper bound %s %s, want 2026-09-01 00:02", upperDay, upperClock)
	}
	if lowerDay == upperDay {
		t.Error("expected the window to span two days")
	}
}
