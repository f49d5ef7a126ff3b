package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangiedu/tutor_marketplace/handlers"
	"github.com/mwangiedu/tutor_marketplace/middleware"
)

func TeacherRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/teachers", handlers.ListApprovedTeachers)

	teacher := api.Group("/teachers", middleware.Protected())
	teacher.Post("/apply", handlers.ApplyToBeATeacher)
	teacher.Get("/me", handlers.GetMyTeacherProfile)
}
