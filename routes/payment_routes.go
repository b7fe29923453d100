package routes

import (
	"github.com/tutormatch/api/handlers"
	"github.com/tutormatch/api/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	checkout := api.Group("/payments/checkout", middleware.Protected())
	checkout.Post("/create-order/:paymentId", handlers.CreateCheckoutOrderHandler)
	checkout.Post("/capture-order", handlers.CaptureCheckoutOrderHandler)
}
