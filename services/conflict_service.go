package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tutormatch/api/models"
	"gorm.io/gorm"
)

// ErrSlotTaken is returned from a booking transaction when the
// requested interval overlaps an active booking. It is an expected
// outcome, not a system failure, and leaves all state unchanged.
var ErrSlotTaken = errors.New("the requested time overlaps an existing booking")

// LockTeacherDay takes a transaction-scoped advisory lock keyed on
// (teacher, date). Every create/reschedule for the same teacher and
// day serializes on it, closing the check-then-act window between the
// conflict read and the write.
func LockTeacherDay(tx *gorm.DB, teacherID uuid.UUID, date time.Time) error {
	key := teacherID.String() + ":" + date.Format("2006-01-02")
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// HasConflict reports whether the candidate interval overlaps any of
// the given bookings. excludeID skips the booking being rescheduled so
// it never collides with its own current slot; pass uuid.Nil for
// creations. The scan short-circuits on the first overlap.
func HasConflict(candidate models.TimeSlot, bookings []models.Booking, excludeID uuid.UUID) (bool, error) {
	for i := range bookings {
		booking := &bookings[i]
		if booking.ID == excludeID {
			continue
		}
		slot, err := booking.Slot()
		if err != nil {
			return false, err
		}
		if candidate.Overlaps(slot) {
			return true, nil
		}
	}
	return false, nil
}

// ActiveBookingsForDay loads the bookings that still occupy time for a
// teacher on a given date (pending, confirmed, or rescheduled). Pass
// the transaction handle when the result feeds a conflict check that
// precedes a write.
func ActiveBookingsForDay(tx *gorm.DB, teacherID uuid.UUID, date time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.
		Where("teacher_id = ? AND date = ? AND status IN ?", teacherID, date.Format("2006-01-02"), models.ActiveStatuses).
		Find(&bookings).Error
	return bookings, err
}
