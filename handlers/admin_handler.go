package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/database"
	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/notifications"
	"gorm.io/gorm"
)

func ListTeacherApplications(c *fiber.Ctx) error {
	var pending []models.TeacherProfile
	if err := database.DB.Preload("User").Where("approval_status = ?", models.ApprovalPending).Find(&pending).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch applications"})
	}
	return c.JSON(pending)
}

type ReviewApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// ReviewTeacherApplication approves or rejects a pending application. On
// approval the user gains the teacher role and the profile starts accepting
// bookings.
func ReviewTeacherApplication(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile id"})
	}

	var req ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.TeacherProfile
	if err := database.DB.Preload("User").First(&profile, "id = ?", profileID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	}
	if profile.ApprovalStatus != models.ApprovalPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Application has already been reviewed"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&profile).Update("approval_status", req.Status).Error; err != nil {
			return err
		}
		if req.Status == models.ApprovalApproved {
			return tx.Model(&models.User{}).Where("id = ?", profile.UserID).Update("role", models.RoleTeacher).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update application status"})
	}

	if req.Status == models.ApprovalApproved {
		go notifications.SendEmail(
			profile.User.FullName,
			profile.User.Email,
			"Your Teacher Application has been Approved!",
			"<h1>Congratulations!</h1><p>Your application has been approved. Students can now book sessions with you.</p>",
		)
	} else {
		go notifications.SendEmail(
			profile.User.FullName,
			profile.User.Email,
			"Update on Your Teacher Application",
			"<h1>Application Update</h1><p>We regret to inform you that your teacher application was not approved at this time.</p>",
		)
	}

	return c.JSON(fiber.Map{"message": "Application status updated successfully"})
}
