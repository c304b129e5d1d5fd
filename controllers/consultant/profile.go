package consultant

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// GetProfile returns the caller's consultant profile, creating it on
// first access.
func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := models.EnsureConsultantProfile(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load consultant profile",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Preload("User").First(profile, profile.ID).Error; err == nil {
		profile.User.Password = ""
	}

	return c.JSON(profile)
}

// UpdateProfile changes the caller's specialty and bio. The derived
// rating fields are not writable here.
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := models.EnsureConsultantProfile(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load consultant profile",
			Error:   err.Error(),
		})
	}

	type ProfileUpdate struct {
		Specialty *string `json:"specialty"`
		Bio       *string `json:"bio"`
	}
	input := new(ProfileUpdate)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid profile data",
		})
	}

	updates := map[string]interface{}{}
	if input.Specialty != nil {
		updates["specialty"] = *input.Specialty
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if len(updates) > 0 {
		if err := db.DB.Model(profile).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update profile",
				Error:   err.Error(),
			})
		}
		invalidateCatalog(c)
	}

	return c.JSON(profile)
}
