package routes

import (
	"github.com/tutormatch/api/handlers"
	"github.com/tutormatch/api/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Get("/:bookingId", handlers.GetBooking)
	booking.Patch("/:bookingId/status", handlers.UpdateBookingStatus)
	booking.Patch("/:bookingId/reschedule", handlers.RescheduleBooking)
	booking.Post("/:bookingId/feedback", handlers.SubmitFeedback)
	booking.Post("/:bookingId/request-refund", handlers.RequestRefund)

	teacherBooking := api.Group("/teacher/bookings", middleware.Protected(), middleware.TeacherRequired())
	teacherBooking.Get("", handlers.GetMyTeacherBookings)
}
