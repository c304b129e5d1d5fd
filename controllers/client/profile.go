package client

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// GetProfile returns the caller's user record together with the client
// profile, creating the profile on first access.
func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.Preload("Role").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "User not found",
		})
	}
	user.Password = ""

	profile, err := models.EnsureClientProfile(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load profile",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

// UpdateProfile changes the caller's name and phone.
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type ProfileUpdate struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}
	input := new(ProfileUpdate)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid profile data",
		})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "User not found",
		})
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		if *input.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Code:    utils.CodeValidation,
				Message: "Name cannot be empty",
			})
		}
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update profile",
				Error:   err.Error(),
			})
		}
	}

	user.Password = ""
	return c.JSON(user)
}

// UploadAvatar stores a profile picture and records its URL on the user.
func UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "No avatar file provided",
		})
	}

	url, err := utils.UploadDocument(fileHeader, "avatars")
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Code:    utils.CodeUpstream,
			Message: "Failed to upload avatar",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save avatar",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"avatar_url": url})
}
