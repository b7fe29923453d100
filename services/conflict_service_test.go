package services

import (
	"testing"

	"github.com/tutormatch/api/models"
	"github.com/google/uuid"
)

func booking(t *testing.T, start, end string) models.Booking {
	t.Helper()
	return models.Booking{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   end,
		Status:    models.StatusConfirmed,
	}
}

func TestHasConflictDetectsOverlap(t *testing.T) {
	existing := []models.Booking{
		booking(t, "09:00", "10:00"),
		booking(t, "14:00", "15:00"),
	}

	candidate, _ := models.NewTimeSlot("14:30", 60)
	conflict, err := HasConflict(candidate, existing, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict {
		t.Error("expected conflict with 14:00-15:00 booking")
	}
}

func TestHasConflictAllowsBackToBack(t *testing.T) {
	existing := []models.Booking{booking(t, "10:00", "11:00")}

	for _, start := range []string{"09:00", "11:00"} {
		candidate, _ := models.NewTimeSlot(start, 60)
		conflict, err := HasConflict(candidate, existing, uuid.Nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conflict {
			t.Errorf("slot starting %s should not conflict with 10:00-11:00", start)
		}
	}
}

func TestHasConflictExcludesSelf(t *testing.T) {
	mine := booking(t, "10:00", "11:00")
	existing := []models.Booking{mine, booking(t, "13:00", "14:00")}

	// rescheduling onto an interval overlapping only my own booking
	candidate, _ := models.NewTimeSlot("10:00", 60)
	conflict, err := HasConflict(candidate, existing, mine.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict {
		t.Error("a booking must not conflict with its own current slot")
	}

	// but without the exclusion it does
	conflict, err = HasConflict(candidate, existing, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict {
		t.Error("expected conflict when no booking is excluded")
	}
}

func TestRescheduledBookingBlocksItsNewSlot(t *testing.T) {
	// After a reschedule the record carries the new date/time in
	// rescheduled status. That slot must block other students until
	// the booking is confirmed or cancelled.
	moved := booking(t, "15:00", "16:00")
	moved.Status = models.StatusRescheduled

	if !moved.Status.IsActive() {
		t.Fatal("a rescheduled booking must still occupy its slot")
	}

	candidate, _ := models.NewTimeSlot("15:00", 60)
	conflict, err := HasConflict(candidate, []models.Booking{moved}, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict {
		t.Error("a third party must not be able to book a rescheduled booking's new slot")
	}

	// the booking's own confirmation path excludes itself and sees no
	// conflict
	conflict, err = HasConflict(candidate, []models.Booking{moved}, moved.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict {
		t.Error("a rescheduled booking must not conflict with itself on confirmation")
	}
}

func TestHasConflictBadStoredClock(t *testing.T) {
	broken := models.Booking{ID: uuid.New(), StartTime: "25:00", EndTime: "26:00"}
	candidate, _ := models.NewTimeSlot("10:00", 60)
	if _, err := HasConflict(candidate, []models.Booking{broken}, uuid.Nil); err == nil {
		t.Error("expected error for malformed stored times")
	}
}

func TestHasConflictEmptyDay(t *testing.T) {
	candidate, _ := models.NewTimeSlot("10:00", 60)
	conflict, err := HasConflict(candidate, nil, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict {
		t.Error("no bookings means no conflict")
	}
}
