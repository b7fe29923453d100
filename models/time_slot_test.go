package models

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		input   string
		minutes int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"9:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"21:30", 1290, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.minutes {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.input, got, tc.minutes)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(540); got != "09:00" {
		t.Errorf("FormatClock(540) = %q, want \"09:00\"", got)
	}
	if got := FormatClock(1290); got != "21:30" {
		t.Errorf("FormatClock(1290) = %q, want \"21:30\"", got)
	}
}

func TestNewTimeSlot(t *testing.T) {
	slot, err := NewTimeSlot("10:00", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.Start != 600 || slot.End != 660 {
		t.Errorf("got [%d, %d), want [600, 660)", slot.Start, slot.End)
	}
	if slot.StartClock() != "10:00" || slot.EndClock() != "11:00" {
		t.Errorf("clock round-trip got %s-%s", slot.StartClock(), slot.EndClock())
	}
	if slot.Minutes() != 60 {
		t.Errorf("Minutes() = %d, want 60", slot.Minutes())
	}

	if _, err := NewTimeSlot("10:00", 0); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := NewTimeSlot("10:00", -30); err == nil {
		t.Error("expected error for negative duration")
	}
	if _, err := NewTimeSlot("23:30", 60); err == nil {
		t.Error("expected error for session running past midnight")
	}
	if _, err := NewTimeSlot("23:00", 60); err == nil {
		t.Error("expected error for session ending exactly at midnight")
	}
	if _, err := NewTimeSlot("banana", 60); err == nil {
		t.Error("expected error for malformed clock")
	}
}

func TestTimeSlotClockRoundTrip(t *testing.T) {
	// Every accepted slot must store clocks that parse back, or the
	// booking poisons later conflict and availability reads.
	for _, c := range []struct {
		start    string
		duration int
	}{
		{"09:00", 60},
		{"20:00", 60},
		{"23:00", 59},
	} {
		slot, err := NewTimeSlot(c.start, c.duration)
		if err != nil {
			t.Fatalf("NewTimeSlot(%s, %d): %v", c.start, c.duration, err)
		}
		if _, err := ParseClock(slot.StartClock()); err != nil {
			t.Errorf("start clock %q does not parse back: %v", slot.StartClock(), err)
		}
		if _, err := ParseClock(slot.EndClock()); err != nil {
			t.Errorf("end clock %q does not parse back: %v", slot.EndClock(), err)
		}
	}
}

func TestTimeSlotOverlaps(t *testing.T) {
	base := TimeSlot{Start: 600, End: 660} // 10:00-11:00

	cases := []struct {
		name  string
		other TimeSlot
		want  bool
	}{
		{"identical", TimeSlot{600, 660}, true},
		{"contained", TimeSlot{615, 645}, true},
		{"containing", TimeSlot{540, 720}, true},
		{"partial front", TimeSlot{570, 630}, true},
		{"partial back", TimeSlot{630, 690}, true},
		{"back to back before", TimeSlot{540, 600}, false},
		{"back to back after", TimeSlot{660, 720}, false},
		{"disjoint", TimeSlot{720, 780}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tc.other, got, tc.want)
			}
			// overlap is symmetric
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Errorf("Overlaps is not symmetric for %v", tc.other)
			}
		})
	}
}
