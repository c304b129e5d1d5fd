package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/consultbridge/consult-booking/config"
	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// GoogleLogin verifies a Google id_token, resolves or creates the matching
// user, and signs in. Replays of the same assertion are idempotent: at most
// one user row exists per email.
func GoogleLogin(c *fiber.Ctx) error {
	type GoogleInput struct {
		IDToken string `json:"id_token"`
	}

	input := new(GoogleInput)
	if err := c.BodyParser(input); err != nil || input.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "id_token is required",
		})
	}

	identity, err := utils.VerifyGoogleIDToken(input.IDToken, config.App.GoogleClientID)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidIdentity) {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Code:    utils.CodeInvalidIdentity,
				Message: "Identity assertion lacks an email",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Code:    utils.CodeUpstream,
			Message: "Failed to verify Google token",
			Error:   err.Error(),
		})
	}

	user, role, err := resolveOrCreateUser(identity)
	if err != nil {
		log.Printf("resolveOrCreateUser for %s: %v", identity.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to resolve user",
			Error:   err.Error(),
		})
	}

	return issueTokens(c, user, role)
}

// resolveOrCreateUser maps a verified external identity to the internal user
// record, creating one with the client role on first sight. Client-role
// users always end up with a client profile.
func resolveOrCreateUser(identity *utils.GoogleIdentity) (*models.User, *models.Role, error) {
	var user models.User
	err := db.DB.Preload("Role").Where("email = ?", identity.Email).First(&user).Error
	if err == nil {
		if user.Role.Name == models.RoleClient {
			if _, err := models.EnsureClientProfile(db.DB, user.ID); err != nil {
				return nil, nil, err
			}
		}
		return &user, &user.Role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	var clientRole models.Role
	if err := db.DB.Where("name = ?", models.RoleClient).First(&clientRole).Error; err != nil {
		return nil, nil, err
	}

	user = models.User{
		Name:      identity.Name,
		Email:     identity.Email,
		AvatarURL: identity.Picture,
		RoleID:    clientRole.ID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		_, err := models.EnsureClientProfile(tx, user.ID)
		return err
	})
	if err != nil {
		// A concurrent first-login may have created the row; re-read by email.
		var existing models.User
		if lookupErr := db.DB.Preload("Role").Where("email = ?", identity.Email).First(&existing).Error; lookupErr == nil {
			return &existing, &existing.Role, nil
		}
		return nil, nil, err
	}

	user.Role = clientRole
	return &user, &clientRole, nil
}
