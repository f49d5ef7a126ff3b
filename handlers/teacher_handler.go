package handlers

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mwangiedu/tutor_marketplace/database"
	"github.com/mwangiedu/tutor_marketplace/models"
	"gorm.io/gorm"
)

type TeacherApplicationRequest struct {
	Headline   string  `json:"headline" validate:"required"`
	Bio        string  `json:"bio" validate:"required"`
	HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
}

// ApplyToBeATeacher creates a pending teacher profile. Bookings against it
// are rejected until an admin approves the application.
func ApplyToBeATeacher(c *fiber.Ctx) error {
	actor := currentActor(c)

	var req TeacherApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.TeacherProfile
	err := database.DB.Where("user_id = ?", actor.UserID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	application := models.TeacherProfile{
		UserID:     actor.UserID,
		Headline:   &req.Headline,
		Bio:        &req.Bio,
		HourlyRate: req.HourlyRate,
	}
	if err := database.DB.Create(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	return c.Status(fiber.StatusCreated).JSON(application)
}

func GetMyTeacherProfile(c *fiber.Ctx) error {
	actor := currentActor(c)

	var profile models.TeacherProfile
	if err := database.DB.Preload("User").Where("user_id = ?", actor.UserID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}
	return c.JSON(profile)
}

// ListApprovedTeachers is the public teacher directory.
func ListApprovedTeachers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.TeacherProfile{}).Where("approval_status = ?", models.ApprovalApproved)

	var total int64
	query.Count(&total)

	var teachers []models.TeacherProfile
	query.Order("avg_rating desc").Offset(offset).Limit(limit).Preload("User").Find(&teachers)

	return c.JSON(fiber.Map{
		"data": teachers,
		"metadata": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}
