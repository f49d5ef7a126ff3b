package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangiedu/tutor_marketplace/handlers"
	"github.com/mwangiedu/tutor_marketplace/middleware"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notification := api.Group("/notifications", middleware.Protected())
	notification.Get("/me", handlers.GetMyNotifications)
	notification.Patch("/:id/read", handlers.MarkNotificationRead)
}
