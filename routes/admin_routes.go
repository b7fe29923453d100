package routes

import (
	"github.com/tutormatch/api/handlers"
	"github.com/tutormatch/api/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/applications", handlers.ListPendingApplications)
	admin.Post("/applications/:teacherId", handlers.ManageApplication)
	admin.Post("/subjects", handlers.CreateSubject)
	admin.Get("/refund-requests", handlers.ListRefundRequests)
	admin.Post("/refund-requests/:paymentId/process", handlers.ProcessRefund)
	admin.Get("/users", handlers.GetAllUsers)
	admin.Patch("/users/:userId/status", handlers.ToggleUserStatus)
}
