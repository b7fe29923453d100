package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduled}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending:     {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:   {StatusCompleted: true, StatusCancelled: true, StatusRescheduled: true},
		StatusRescheduled: {StatusConfirmed: true, StatusCancelled: true},
		StatusCompleted:   {},
		StatusCancelled:   {},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionToUnknownStatus(t *testing.T) {
	if BookingStatus("archived").CanTransitionTo(StatusCancelled) {
		t.Error("unknown status should never transition")
	}
	if StatusPending.CanTransitionTo(BookingStatus("archived")) {
		t.Error("transition to unknown status should be rejected")
	}
}

func TestIsTerminal(t *testing.T) {
	if !StatusCompleted.IsTerminal() {
		t.Error("completed should be terminal")
	}
	if !StatusCancelled.IsTerminal() {
		t.Error("cancelled should be terminal")
	}
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusRescheduled} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestIsActive(t *testing.T) {
	// A rescheduled booking carries its new date/time and must keep
	// holding that slot until it is confirmed or cancelled, or a
	// third party could book the same interval.
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusRescheduled} {
		if !s.IsActive() {
			t.Errorf("%s should hold its time slot", s)
		}
	}
	for _, s := range []BookingStatus{StatusCompleted, StatusCancelled} {
		if s.IsActive() {
			t.Errorf("%s should not hold a time slot", s)
		}
	}
}

func TestActiveStatusesMatchIsActive(t *testing.T) {
	inSet := map[BookingStatus]bool{}
	for _, s := range ActiveStatuses {
		inSet[s] = true
	}
	for s := range validTransitions {
		if s.IsActive() != inSet[s] {
			t.Errorf("%s: IsActive()=%v but ActiveStatuses membership is %v", s, s.IsActive(), inSet[s])
		}
	}
}

func TestTransitionRevalidationAfterConcurrentWrite(t *testing.T) {
	// A transition validated while the booking read confirmed must
	// fail once the stored status has meanwhile become terminal.
	if StatusCancelled.CanTransitionTo(StatusCompleted) {
		t.Error("a cancelled booking must reject completion")
	}
	if StatusCompleted.CanTransitionTo(StatusCancelled) {
		t.Error("a completed booking must reject cancellation")
	}
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("confirmed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusConfirmed {
		t.Errorf("got %s, want %s", status, StatusConfirmed)
	}

	if _, err := ParseBookingStatus("approved"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseBookingStatus(""); err == nil {
		t.Error("expected error for empty status")
	}
}
