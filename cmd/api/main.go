package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/mwangiedu/tutor_marketplace/configs"
	"github.com/mwangiedu/tutor_marketplace/database"
	"github.com/mwangiedu/tutor_marketplace/handlers"
	"github.com/mwangiedu/tutor_marketplace/jobs"
	"github.com/mwangiedu/tutor_marketplace/notifications"
	"github.com/mwangiedu/tutor_marketplace/repository"
	"github.com/mwangiedu/tutor_marketplace/routes"
	"github.com/mwangiedu/tutor_marketplace/services"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	// The booking core only ever sees the repository interfaces; the store
	// behind them is chosen here.
	store := repository.NewGormStore(database.DB)
	dispatcher := services.NewDispatcher(
		store.Notifications(),
		store.Users(),
		config.ConfigOr("ADMIN_NOTIFY_TARGET", services.AdminNotifyStudent),
		notifications.SendEmail,
	)
	bookingService := services.NewBookingService(store.Bookings(), store.TeacherProfiles(), dispatcher)
	handlers.InitBookingHandlers(bookingService)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.SendSessionReminders)
	c.AddFunc("0 * * * *", jobs.CheckForUnclosedSessions)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Tutor Marketplace",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Tutor Marketplace API",
		})
	})

	routes.AuthRoutes(app)
	routes.TeacherRoutes(app)
	routes.AdminRoutes(app)
	routes.BookingRoutes(app)
	routes.NotificationRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.ConfigOr("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
