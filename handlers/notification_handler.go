package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/database"
	"github.com/mwangiedu/tutor_marketplace/models"
)

func GetMyNotifications(c *fiber.Ctx) error {
	actor := currentActor(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Notification{}).Where("receiver_id = ?", actor.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var items []models.Notification
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&items)

	return c.JSON(fiber.Map{
		"data": items,
		"metadata": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// MarkNotificationRead flips is_read, the only mutable field on a
// notification.
func MarkNotificationRead(c *fiber.Ctx) error {
	actor := currentActor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND receiver_id = ?", id, actor.UserID).
		Update("is_read", true)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
