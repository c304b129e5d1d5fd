package client

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// GetNotifications lists the caller's notifications, newest first.
// ?unread=true restricts to unread ones.
func GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	query := db.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if c.Query("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch notifications",
			Error:   err.Error(),
		})
	}

	return c.JSON(notifications)
}

// MarkNotificationRead stamps a single notification as read. Marking an
// already-read notification is a no-op.
func MarkNotificationRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	notificationID := c.Params("id")

	var notification models.Notification
	if err := db.DB.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Notification not found",
		})
	}

	if notification.ReadAt == nil {
		now := time.Now()
		notification.ReadAt = &now
		if err := db.DB.Save(&notification).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update notification",
				Error:   err.Error(),
			})
		}
	}

	return c.JSON(notification)
}

// MarkAllNotificationsRead stamps every unread notification of the caller.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	now := time.Now()
	res := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update notifications",
			Error:   res.Error.Error(),
		})
	}

	return c.JSON(fiber.Map{"updated": res.RowsAffected})
}
