package routes

import (
	"github.com/tutormatch/api/handlers"
	"github.com/tutormatch/api/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	ws := app.Group("/ws", handlers.WebsocketUpgrade, middleware.Protected())
	ws.Get("/notifications", handlers.NotificationSocket)
}
