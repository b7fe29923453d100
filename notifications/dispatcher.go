package notifications

import (
	"fmt"
	"log"

	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/tutormatch/api/websocket"
	"github.com/google/uuid"
)

// BookingEvent describes one lifecycle transition. It is the contract
// pushed to connected clients and mirrored in the emails sent to both
// parties.
type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    uuid.UUID `json:"actor_id"`
}

// DispatchBookingEvent fans a committed transition out to email and the
// websocket hub. Fire-and-forget: delivery failures are logged and
// never roll back the booking write.
func DispatchBookingEvent(booking *models.Booking, from, to models.BookingStatus, actorID uuid.UUID) {
	event := BookingEvent{
		BookingID:  booking.ID,
		FromStatus: from.String(),
		ToStatus:   to.String(),
		ActorID:    actorID,
	}

	go func() {
		var student, teacher models.User
		if err := database.DB.First(&student, "id = ?", booking.StudentID).Error; err != nil {
			log.Printf("Dispatch: failed to load student for booking %s: %v", booking.ID, err)
			return
		}
		if err := database.DB.First(&teacher, "id = ?", booking.TeacherID).Error; err != nil {
			log.Printf("Dispatch: failed to load teacher for booking %s: %v", booking.ID, err)
			return
		}

		subject, body := transitionEmail(booking, to)
		if subject != "" {
			SendEmail(student.FullName, student.Email, subject, body)
			SendEmail(teacher.FullName, teacher.Email, subject, body)
		}

		websocket.Notify <- websocket.Push{
			UserIDs: []uuid.UUID{booking.StudentID, booking.TeacherID},
			Payload: event,
		}
	}()
}

func transitionEmail(booking *models.Booking, to models.BookingStatus) (string, string) {
	when := fmt.Sprintf("%s at %s", booking.Date.Format("January 2, 2006"), booking.StartTime)

	switch to {
	case models.StatusPending:
		return "New Session Request",
			fmt.Sprintf("<h1>Session Requested</h1><p>A %s session has been requested for %s.</p>", booking.Subject, when)
	case models.StatusConfirmed:
		link := ""
		if booking.MeetingLink != nil {
			link = fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Session</a></p>", *booking.MeetingLink)
		}
		return "Your Session is Confirmed!",
			fmt.Sprintf("<h1>Session Confirmed</h1><p>Your %s session on %s is confirmed.</p>%s", booking.Subject, when, link)
	case models.StatusCompleted:
		return "Session Completed",
			fmt.Sprintf("<h1>Session Completed</h1><p>Your %s session on %s has been marked as complete.</p>", booking.Subject, when)
	case models.StatusCancelled:
		reason := ""
		if booking.CancelReason != nil {
			reason = fmt.Sprintf("<p>Reason: %s</p>", *booking.CancelReason)
		}
		return "Session Cancelled",
			fmt.Sprintf("<h1>Session Cancelled</h1><p>The %s session scheduled for %s has been cancelled.</p>%s", booking.Subject, when, reason)
	case models.StatusRescheduled:
		return "Session Rescheduled",
			fmt.Sprintf("<h1>Session Rescheduled</h1><p>Your %s session has been moved to %s. The new time still needs to be confirmed.</p>", booking.Subject, when)
	}
	return "", ""
}
