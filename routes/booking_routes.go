package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangiedu/tutor_marketplace/handlers"
	"github.com/mwangiedu/tutor_marketplace/middleware"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("", handlers.ListBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Get("/:id", handlers.GetBooking)
	booking.Patch("/:id", handlers.UpdateBooking)
	booking.Delete("/:id", handlers.CancelBooking)
	booking.Post("/:id/review", handlers.CreateReview)
}
