package services

import (
	"testing"

	"github.com/tutormatch/api/models"
)

func slot(t *testing.T, start string, minutes int) models.TimeSlot {
	t.Helper()
	s, err := models.NewTimeSlot(start, minutes)
	if err != nil {
		t.Fatalf("bad slot %s+%d: %v", start, minutes, err)
	}
	return s
}

func TestBuildOpenSlotsEmptyDay(t *testing.T) {
	open := BuildOpenSlots(9*60, 21*60, 60, nil)
	if len(open) != 12 {
		t.Fatalf("expected 12 open slots, got %d", len(open))
	}
	if open[0].StartClock() != "09:00" || open[0].EndClock() != "10:00" {
		t.Errorf("first slot is %s-%s, want 09:00-10:00", open[0].StartClock(), open[0].EndClock())
	}
	if open[11].StartClock() != "20:00" || open[11].EndClock() != "21:00" {
		t.Errorf("last slot is %s-%s, want 20:00-21:00", open[11].StartClock(), open[11].EndClock())
	}
}

func TestBuildOpenSlotsRemovesBookedHour(t *testing.T) {
	booked := []models.TimeSlot{slot(t, "10:00", 60)}
	open := BuildOpenSlots(9*60, 21*60, 60, booked)
	if len(open) != 11 {
		t.Fatalf("expected 11 open slots, got %d", len(open))
	}
	for _, s := range open {
		if s.StartClock() == "10:00" {
			t.Error("10:00 slot should be removed")
		}
	}
	// neighbors survive: back-to-back bookings are legal
	if open[0].StartClock() != "09:00" || open[1].StartClock() != "11:00" {
		t.Errorf("unexpected neighbors: %s, %s", open[0].StartClock(), open[1].StartClock())
	}
}

func TestBuildOpenSlotsPartialOverlapBlocksBothSlots(t *testing.T) {
	// a 10:30-11:30 booking straddles two hourly slots
	booked := []models.TimeSlot{slot(t, "10:30", 60)}
	open := BuildOpenSlots(9*60, 21*60, 60, booked)
	if len(open) != 10 {
		t.Fatalf("expected 10 open slots, got %d", len(open))
	}
	for _, s := range open {
		if s.StartClock() == "10:00" || s.StartClock() == "11:00" {
			t.Errorf("slot starting %s should be blocked", s.StartClock())
		}
	}
}

func TestBuildOpenSlotsChronological(t *testing.T) {
	booked := []models.TimeSlot{slot(t, "12:00", 60), slot(t, "09:00", 60)}
	open := BuildOpenSlots(9*60, 21*60, 60, booked)
	for i := 1; i < len(open); i++ {
		if open[i].Start <= open[i-1].Start {
			t.Fatalf("slots out of order at index %d", i)
		}
	}
}

func TestBuildOpenSlotsIgnoresTrailingRemainder(t *testing.T) {
	// 90-minute slots over a 12-hour window: the final 60 minutes do
	// not fit a whole slot and must not appear.
	open := BuildOpenSlots(9*60, 21*60, 90, nil)
	if len(open) != 8 {
		t.Fatalf("expected 8 open slots, got %d", len(open))
	}
	last := open[len(open)-1]
	if last.EndClock() != "21:00" {
		t.Errorf("last slot ends %s, want 21:00", last.EndClock())
	}
}

func TestOpenSlotsExcludeRescheduledTarget(t *testing.T) {
	// A booking moved to 15:00 sits in rescheduled status but its new
	// slot is no longer available; only slots held by non-active
	// bookings reopen.
	bookings := []models.Booking{
		{StartTime: "15:00", EndTime: "16:00", Status: models.StatusRescheduled},
		{StartTime: "10:00", EndTime: "11:00", Status: models.StatusCancelled},
	}

	var booked []models.TimeSlot
	for i := range bookings {
		if !bookings[i].Status.IsActive() {
			continue
		}
		s, err := bookings[i].Slot()
		if err != nil {
			t.Fatalf("bad stored slot: %v", err)
		}
		booked = append(booked, s)
	}

	open := BuildOpenSlots(9*60, 21*60, 60, booked)
	for _, s := range open {
		if s.StartClock() == "15:00" {
			t.Error("the rescheduled booking's new slot must not be offered")
		}
	}
	found := false
	for _, s := range open {
		if s.StartClock() == "10:00" {
			found = true
		}
	}
	if !found {
		t.Error("the cancelled booking's slot should reopen")
	}
}

func TestBuildOpenSlotsFullyBooked(t *testing.T) {
	booked := []models.TimeSlot{{Start: 9 * 60, End: 21 * 60}}
	open := BuildOpenSlots(9*60, 21*60, 60, booked)
	if len(open) != 0 {
		t.Fatalf("expected no open slots, got %d", len(open))
	}
}
