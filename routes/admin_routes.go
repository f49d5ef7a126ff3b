package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangiedu/tutor_marketplace/handlers"
	"github.com/mwangiedu/tutor_marketplace/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/teacher-applications", handlers.ListTeacherApplications)
	admin.Patch("/teacher-applications/:id", handlers.ReviewTeacherApplication)
}
