package handlers

import (
	"errors"
	"strconv"
	"time"

	config "github.com/tutormatch/api/configs"
	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/tutormatch/api/notifications"
	"github.com/tutormatch/api/services"
	"github.com/tutormatch/api/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinels for transition checks re-run under the row lock; a
// concurrent commit can invalidate what was validated from the first
// read.
var (
	errStaleStatus     = errors.New("booking status changed concurrently")
	errSessionNotEnded = errors.New("session has not ended yet")
)

type CreateBookingRequest struct {
	TeacherID string  `json:"teacher_id" validate:"required,uuid"`
	Subject   string  `json:"subject" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required"`
	Duration  int     `json:"duration" validate:"required,min=30,max=240"`
	Notes     *string `json:"notes,omitempty"`
}

func CreateBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slot, err := models.NewTimeSlot(req.StartTime, req.Duration)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	var student models.User
	if err := database.DB.First(&student, "id = ? AND role = ?", studentID, "student").Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	teacherID, _ := uuid.Parse(req.TeacherID)
	var teacher models.Teacher
	if err := database.DB.Preload("User").First(&teacher, "user_id = ? AND status = ?", teacherID, "active").Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active teacher not found"})
	}

	// Price is frozen at creation; later rate changes never touch
	// existing bookings.
	price := teacher.HourlyRate * float64(req.Duration) / 60

	booking := models.Booking{
		StudentID: studentID,
		TeacherID: teacherID,
		Subject:   req.Subject,
		Date:      date,
		StartTime: slot.StartClock(),
		EndTime:   slot.EndClock(),
		Duration:  req.Duration,
		Status:    models.StatusPending,
		Price:     price,
		Notes:     req.Notes,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.LockTeacherDay(tx, teacherID, date); err != nil {
			return err
		}

		active, err := services.ActiveBookingsForDay(tx, teacherID, date)
		if err != nil {
			return err
		}
		conflict, err := services.HasConflict(slot, active, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return services.ErrSlotTaken
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		payment := models.Payment{
			BookingID: &booking.ID,
			Amount:    booking.Price,
			Currency:  config.ConfigOr("PLATFORM_CURRENCY", "USD"),
			Provider:  config.ConfigOr("PAYMENT_PROVIDER", "gateway"),
			Status:    "pending",
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrSlotTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The requested time slot is no longer available"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	services.InvalidateAvailability(teacherID, date)
	notifications.DispatchBookingEvent(&booking, "", models.StatusPending, studentID)

	return c.Status(fiber.StatusCreated).JSON(booking)
}

type UpdateStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	CancelReason *string `json:"cancel_reason,omitempty"`
	MeetingLink  *string `json:"meeting_link,omitempty"`
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("bookingId")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.StudentID != actorID && booking.TeacherID != actorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this booking"})
	}

	target, err := models.ParseBookingStatus(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if target == models.StatusRescheduled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Use the reschedule endpoint to move a booking"})
	}
	if !booking.Status.CanTransitionTo(target) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Cannot change booking from " + booking.Status.String() + " to " + target.String(),
		})
	}

	if target == models.StatusCompleted {
		if booking.TeacherID != actorID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the teacher can mark a session as complete"})
		}
		if sessionEnd(&booking).After(time.Now()) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot mark a session as complete before it has ended"})
		}
	}

	var from models.BookingStatus
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Re-read under a row lock: the status seen above may be
		// stale by the time this transaction runs.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", booking.ID).Error; err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(target) {
			return errStaleStatus
		}
		if target == models.StatusCompleted && sessionEnd(&booking).After(time.Now()) {
			return errSessionNotEnded
		}

		from = booking.Status
		booking.Status = target

		switch target {
		case models.StatusCancelled:
			cancelledBy := "student"
			if actorID == booking.TeacherID {
				cancelledBy = "teacher"
			}
			booking.CancelledBy = &cancelledBy
			booking.CancelReason = req.CancelReason
		case models.StatusConfirmed:
			if req.MeetingLink != nil {
				booking.MeetingLink = req.MeetingLink
			} else if booking.MeetingLink == nil {
				link := utils.GenerateMeetingLink()
				booking.MeetingLink = &link
			}
		case models.StatusCompleted:
			commissionRate, _ := strconv.ParseFloat(config.ConfigOr("PLATFORM_COMMISSION_RATE", "0.15"), 64)
			earnings := booking.Price * (1 - commissionRate)
			if err := tx.Model(&models.Teacher{}).Where("user_id = ?", booking.TeacherID).
				Update("current_balance", gorm.Expr("current_balance + ?", earnings)).Error; err != nil {
				return err
			}
		}

		return tx.Save(&booking).Error
	})
	if err != nil {
		if errors.Is(err, errStaleStatus) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Cannot change booking from " + booking.Status.String() + " to " + target.String(),
			})
		}
		if errors.Is(err, errSessionNotEnded) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot mark a session as complete before it has ended"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update booking"})
	}

	services.InvalidateAvailability(booking.TeacherID, booking.Date)
	notifications.DispatchBookingEvent(&booking, from, target, actorID)

	if target == models.StatusCompleted {
		go services.GenerateBookingReceipt(booking.ID)
	}

	return c.JSON(booking)
}

type RescheduleRequest struct {
	NewDate string `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewTime string `json:"new_time" validate:"required"`
}

func RescheduleBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("bookingId")

	var req RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.StudentID != actorID && booking.TeacherID != actorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this booking"})
	}
	if booking.Status != models.StatusPending && booking.Status != models.StatusConfirmed {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Only pending or confirmed bookings can be rescheduled",
		})
	}

	slot, err := models.NewTimeSlot(req.NewTime, booking.Duration)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	newDate, _ := time.Parse("2006-01-02", req.NewDate)

	var oldDate time.Time
	var from models.BookingStatus

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Re-read under a row lock so a concurrent transition cannot
		// be overwritten by this save.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", booking.ID).Error; err != nil {
			return err
		}
		if booking.Status != models.StatusPending && booking.Status != models.StatusConfirmed {
			return errStaleStatus
		}
		oldDate = booking.Date
		from = booking.Status

		if err := services.LockTeacherDay(tx, booking.TeacherID, newDate); err != nil {
			return err
		}

		active, err := services.ActiveBookingsForDay(tx, booking.TeacherID, newDate)
		if err != nil {
			return err
		}
		conflict, err := services.HasConflict(slot, active, booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			return services.ErrSlotTaken
		}

		prevDate := booking.Date
		prevTime := booking.StartTime
		booking.RescheduledFromDate = &prevDate
		booking.RescheduledFromTime = &prevTime
		booking.Date = newDate
		booking.StartTime = slot.StartClock()
		booking.EndTime = slot.EndClock()
		booking.Status = models.StatusRescheduled

		return tx.Save(&booking).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrSlotTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The requested time slot is no longer available"})
		}
		if errors.Is(err, errStaleStatus) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Only pending or confirmed bookings can be rescheduled",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reschedule booking"})
	}

	services.InvalidateAvailability(booking.TeacherID, oldDate)
	services.InvalidateAvailability(booking.TeacherID, newDate)
	notifications.DispatchBookingEvent(&booking, from, models.StatusRescheduled, actorID)

	return c.JSON(booking)
}

func GetBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.Preload("Student").Preload("Teacher").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.StudentID != actorID && booking.TeacherID != actorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this booking"})
	}

	return c.JSON(booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID, _ := uuid.Parse(claims["user_id"].(string))

	var bookings []models.Booking
	database.DB.
		Preload("Teacher").
		Where("student_id = ?", studentID).
		Order("date desc, start_time desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func GetMyTeacherBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))

	var bookings []models.Booking
	database.DB.
		Preload("Student").
		Where("teacher_id = ?", teacherID).
		Order("date desc, start_time desc").
		Find(&bookings)

	return c.JSON(bookings)
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func SubmitFeedback(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("bookingId")

	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.StudentID != studentID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the student for this booking"})
	}
	if booking.Status != models.StatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Feedback can only be submitted for completed sessions"})
	}
	if booking.FeedbackRating != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Feedback for this booking has already been submitted"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		booking.FeedbackRating = &req.Rating
		booking.FeedbackComment = &req.Comment
		booking.FeedbackSubmittedAt = &now
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		var result struct {
			Avg float64
		}
		tx.Model(&models.Booking{}).
			Where("teacher_id = ? AND feedback_rating IS NOT NULL", booking.TeacherID).
			Select("avg(feedback_rating) as avg").Scan(&result)

		return tx.Model(&models.Teacher{}).Where("user_id = ?", booking.TeacherID).
			Update("avg_rating", result.Avg).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save feedback"})
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// sessionEnd combines the booking's date with its end clock. All times
// live in the platform's single timezone.
func sessionEnd(booking *models.Booking) time.Time {
	end, err := models.ParseClock(booking.EndTime)
	if err != nil {
		return booking.Date
	}
	return time.Date(booking.Date.Year(), booking.Date.Month(), booking.Date.Day(),
		end/60, end%60, 0, 0, time.Local)
}
