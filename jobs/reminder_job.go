package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/tutormatch/api/notifications"
)

// reminderWindow returns the day and clock bounds for sessions starting
// 60 to 65 minutes after now. Near midnight the two bounds land on
// different calendar days.
func reminderWindow(now time.Time) (lowerDay, lowerClock, upperDay, upperClock string) {
	lower := now.Add(60 * time.Minute)
	upper := now.Add(65 * time.Minute)
	return lower.Format("2006-01-02"), lower.Format("15:04"),
		upper.Format("2006-01-02"), upper.Format("15:04")
}

func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	lowerDay, lowerClock, upperDay, upperClock := reminderWindow(time.Now())

	query := database.DB.
		Preload("Student").
		Preload("Teacher").
		Where("status = ?", models.StatusConfirmed)
	if lowerDay == upperDay {
		query = query.Where("date = ? AND start_time BETWEEN ? AND ?", lowerDay, lowerClock, upperClock)
	} else {
		query = query.Where("(date = ? AND start_time >= ?) OR (date = ? AND start_time <= ?)",
			lowerDay, lowerClock, upperDay, upperClock)
	}

	var upcomingBookings []models.Booking
	if err := query.Find(&upcomingBookings).Error; err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	if len(upcomingBookings) == 0 {
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking ID: %s", booking.ID)

		link := ""
		if booking.MeetingLink != nil {
			link = fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Session</a></p>", *booking.MeetingLink)
		}
		emailSubject := "Reminder: Your Session Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Session Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that your %s session is scheduled to start at %s.</p>%s",
			booking.Subject,
			booking.StartTime,
			link,
		)

		go notifications.SendEmail(booking.Student.FullName, booking.Student.Email, emailSubject, emailBody)
		go notifications.SendEmail(booking.Teacher.FullName, booking.Teacher.Email, emailSubject, emailBody)
	}
}
