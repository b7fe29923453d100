package jobs

import (
	"log"
	"time"

	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/tutormatch/api/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpireStalePendingBookings cancels pending bookings whose start time
// has passed without a teacher confirmation. The cancellation goes
// through the same transition rules as a user-initiated one.
func ExpireStalePendingBookings() {
	log.Println("Running job: ExpireStalePendingBookings...")

	now := time.Now()
	day := now.Format("2006-01-02")
	clock := now.Format("15:04")

	var staleBookings []models.Booking
	err := database.DB.
		Where("status = ? AND (date < ? OR (date = ? AND start_time <= ?))",
			models.StatusPending, day, day, clock).
		Find(&staleBookings).Error
	if err != nil {
		log.Printf("Error checking for stale pending bookings: %v", err)
		return
	}

	for _, booking := range staleBookings {
		if !booking.Status.CanTransitionTo(models.StatusCancelled) {
			continue
		}

		from := booking.Status
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			cancelledBy := "system"
			reason := "Session start passed without teacher confirmation"
			booking.Status = models.StatusCancelled
			booking.CancelledBy = &cancelledBy
			booking.CancelReason = &reason
			return tx.Save(&booking).Error
		})
		if err != nil {
			log.Printf("Failed to expire booking %s: %v", booking.ID, err)
			continue
		}

		notifications.DispatchBookingEvent(&booking, from, models.StatusCancelled, uuid.Nil)
	}

	if len(staleBookings) > 0 {
		log.Printf("Expired %d stale pending booking(s).", len(staleBookings))
	}
}
