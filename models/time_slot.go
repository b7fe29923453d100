package models

import (
	"errors"
	"fmt"
	"regexp"
)

// clockPattern matches "HH:MM" on a 24-hour clock, e.g. "9:00" or "21:30".
var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var ErrBadClock = errors.New("time must be in HH:MM 24-hour format")

// TimeSlot is a half-open interval [Start, End) within a single day,
// expressed as minute offsets from midnight. Comparisons happen on the
// offsets, never on the string form.
type TimeSlot struct {
	Start int
	End   int
}

func ParseClock(value string) (int, error) {
	if !clockPattern.MatchString(value) {
		return 0, ErrBadClock
	}
	var hours, minutes int
	fmt.Sscanf(value, "%d:%d", &hours, &minutes)
	return hours*60 + minutes, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NewTimeSlot builds a slot from a "HH:MM" start and a duration in minutes.
func NewTimeSlot(start string, durationMinutes int) (TimeSlot, error) {
	offset, err := ParseClock(start)
	if err != nil {
		return TimeSlot{}, err
	}
	if durationMinutes <= 0 {
		return TimeSlot{}, errors.New("duration must be positive")
	}
	// The end clock must survive a ParseClock round-trip, so "24:00"
	// is out: sessions end no later than 23:59.
	end := offset + durationMinutes
	if end >= 24*60 {
		return TimeSlot{}, errors.New("session cannot run past midnight")
	}
	return TimeSlot{Start: offset, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. A slot
// ending at 10:00 does not overlap one starting at 10:00, so
// back-to-back sessions are allowed.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && other.Start < s.End
}

func (s TimeSlot) StartClock() string {
	return FormatClock(s.Start)
}

func (s TimeSlot) EndClock() string {
	return FormatClock(s.End)
}

func (s TimeSlot) Minutes() int {
	return s.End - s.Start
}
