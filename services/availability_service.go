package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	config "github.com/tutormatch/api/configs"
	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/google/uuid"
)

const availabilityCacheTTL = 5 * time.Minute

// AvailableSlot is one bookable hour in a teacher's day. It is derived
// on demand and never persisted.
type AvailableSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WorkingWindow returns the platform booking window and slot length in
// minutes. The window is configuration, not policy baked into code.
func WorkingWindow() (dayStart, dayEnd, slotMinutes int) {
	dayStart, err := models.ParseClock(config.ConfigOr("BOOKING_DAY_START", "09:00"))
	if err != nil {
		dayStart = 9 * 60
	}
	dayEnd, err = models.ParseClock(config.ConfigOr("BOOKING_DAY_END", "21:00"))
	if err != nil || dayEnd <= dayStart {
		dayEnd = 21 * 60
	}
	slotMinutes, err = strconv.Atoi(config.ConfigOr("BOOKING_SLOT_MINUTES", "60"))
	if err != nil || slotMinutes <= 0 {
		slotMinutes = 60
	}
	return dayStart, dayEnd, slotMinutes
}

// BuildOpenSlots decomposes [dayStart, dayEnd) into sequential slots of
// slotMinutes and keeps those overlapping none of the booked intervals.
// Output is chronological.
func BuildOpenSlots(dayStart, dayEnd, slotMinutes int, booked []models.TimeSlot) []models.TimeSlot {
	var open []models.TimeSlot
	for start := dayStart; start+slotMinutes <= dayEnd; start += slotMinutes {
		candidate := models.TimeSlot{Start: start, End: start + slotMinutes}
		taken := false
		for _, slot := range booked {
			if candidate.Overlaps(slot) {
				taken = true
				break
			}
		}
		if !taken {
			open = append(open, candidate)
		}
	}
	return open
}

// ComputeAvailableSlots produces the teacher's bookable slots for one
// date, consulting the per-(teacher, date) cache first. The cache is
// invalidated on every booking write for that teacher and date, so a
// hit is never stale.
func ComputeAvailableSlots(teacherID uuid.UUID, date time.Time) ([]AvailableSlot, error) {
	day := date.Format("2006-01-02")
	cacheKey := fmt.Sprintf("availability:%s:%s", teacherID, day)

	if database.Cache != nil {
		cached, err := database.Cache.Get(context.Background(), cacheKey).Result()
		if err == nil {
			var slots []AvailableSlot
			if err := json.Unmarshal([]byte(cached), &slots); err == nil {
				return slots, nil
			}
		}
	}

	bookings, err := ActiveBookingsForDay(database.DB, teacherID, date)
	if err != nil {
		return nil, err
	}

	booked := make([]models.TimeSlot, 0, len(bookings))
	for i := range bookings {
		slot, err := bookings[i].Slot()
		if err != nil {
			return nil, err
		}
		booked = append(booked, slot)
	}

	dayStart, dayEnd, slotMinutes := WorkingWindow()
	slots := make([]AvailableSlot, 0)
	for _, slot := range BuildOpenSlots(dayStart, dayEnd, slotMinutes, booked) {
		slots = append(slots, AvailableSlot{
			Date:      day,
			StartTime: slot.StartClock(),
			EndTime:   slot.EndClock(),
		})
	}

	if database.Cache != nil {
		if payload, err := json.Marshal(slots); err == nil {
			if err := database.Cache.Set(context.Background(), cacheKey, payload, availabilityCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache availability for teacher %s on %s: %v", teacherID, day, err)
			}
		}
	}

	return slots, nil
}

// InvalidateAvailability drops the cached slots for a teacher and date.
// Call it after any write that touches that teacher's bookings.
func InvalidateAvailability(teacherID uuid.UUID, date time.Time) {
	if database.Cache == nil {
		return
	}
	cacheKey := fmt.Sprintf("availability:%s:%s", teacherID, date.Format("2006-01-02"))
	if err := database.Cache.Del(context.Background(), cacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate availability cache %s: %v", cacheKey, err)
	}
}
