package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/database"
	"github.com/mwangiedu/tutor_marketplace/models"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview lets the student rate a completed session. One review per
// booking; the teacher's average rating is recalculated in the same
// transaction.
func CreateReview(c *fiber.Ctx) error {
	actor := currentActor(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var newReview models.Review
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			return errors.New("booking not found")
		}
		if booking.StudentID != actor.UserID {
			return errors.New("you are not the student for this booking")
		}
		if booking.Status != models.BookingStatusCompleted {
			return errors.New("reviews can only be submitted for completed bookings")
		}

		var existing models.Review
		if err := tx.Where("booking_id = ?", bookingID).First(&existing).Error; err == nil {
			return errors.New("a review for this booking has already been submitted")
		}

		newReview = models.Review{
			BookingID:        booking.ID,
			StudentID:        actor.UserID,
			TeacherProfileID: booking.TeacherProfileID,
			Rating:           req.Rating,
			Comment:          req.Comment,
		}
		if err := tx.Create(&newReview).Error; err != nil {
			return err
		}

		var result struct {
			Avg float64
		}
		tx.Model(&models.Review{}).Where("teacher_profile_id = ?", booking.TeacherProfileID).
			Select("avg(rating) as avg").Scan(&result)

		return tx.Model(&models.TeacherProfile{}).Where("id = ?", booking.TeacherProfileID).
			Update("avg_rating", result.Avg).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(newReview)
}
