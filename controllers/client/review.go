package client

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/consultbridge/consult-booking/cache"
	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// CreateReview adds a review for a completed booking. One review per
// booking; the consultant's derived rating is recomputed in the same
// transaction.
func CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	review := new(models.Review)
	if err := c.BodyParser(review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid review data",
		})
	}
	if review.Rating < 1 || review.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Rating must be between 1 and 5",
		})
	}

	var booking models.Booking
	if err := db.DB.Preload("Client").First(&booking, review.BookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Booking not found",
		})
	}

	if booking.Client.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "Only the booking's client may review it",
		})
	}

	if booking.Status != models.StatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Only completed bookings can be reviewed",
		})
	}

	hasExisting, err := review.HasExistingReview(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to check existing reviews",
			Error:   err.Error(),
		})
	}
	if hasExisting {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Code:    utils.CodeConflict,
			Message: "This booking already has a review",
		})
	}

	review.ClientID = booking.ClientID
	review.ConsultantID = booking.ConsultantID

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return models.RecomputeConsultantRating(tx, review.ConsultantID)
	})
	if err != nil {
		// A concurrent create can slip past the pre-check and land on the
		// unique index instead.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Code:    utils.CodeConflict,
				Message: "This booking already has a review",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create review",
			Error:   err.Error(),
		})
	}

	// The derived rating changed, so cached catalog entries are stale.
	cache.Invalidate(c.Context(), cache.KeyPrefix+"/consultants*")

	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview lets the review's author change rating and comment; the
// consultant's derived rating is recomputed.
func UpdateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	reviewID := c.Params("id")

	var existing models.Review
	if err := db.DB.Preload("Client").First(&existing, reviewID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Review not found",
		})
	}

	if existing.Client.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "You don't have permission to update this review",
		})
	}

	type ReviewUpdate struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	input := new(ReviewUpdate)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid review data",
		})
	}

	updates := map[string]interface{}{}
	if input.Rating != nil {
		rating := *input.Rating
		if rating < 1 {
			rating = 1
		} else if rating > 5 {
			rating = 5
		}
		updates["rating"] = rating
	}
	if input.Comment != nil {
		updates["comment"] = *input.Comment
	}
	if len(updates) == 0 {
		return c.JSON(existing)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		return models.RecomputeConsultantRating(tx, existing.ConsultantID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update review",
			Error:   err.Error(),
		})
	}

	cache.Invalidate(c.Context(), cache.KeyPrefix+"/consultants*")

	return c.JSON(existing)
}

// DeleteReview removes a review (author or admin) and recomputes the
// consultant's derived rating.
func DeleteReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role := c.Locals("role").(string)
	reviewID := c.Params("id")

	var existing models.Review
	if err := db.DB.Preload("Client").First(&existing, reviewID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Review not found",
		})
	}

	if existing.Client.UserID != userID && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "You don't have permission to delete this review",
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return models.RecomputeConsultantRating(tx, existing.ConsultantID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete review",
			Error:   err.Error(),
		})
	}

	cache.Invalidate(c.Context(), cache.KeyPrefix+"/consultants*")

	return c.SendStatus(fiber.StatusNoContent)
}

// GetConsultantReviews lists reviews for a consultant, newest first.
func GetConsultantReviews(c *fiber.Ctx) error {
	consultantID := c.Params("id")

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var reviews []models.Review
	if err := db.DB.Preload("Client.User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, name")
	}).
		Where("consultant_id = ?", consultantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch reviews",
			Error:   err.Error(),
		})
	}

	var count int64
	db.DB.Model(&models.Review{}).Where("consultant_id = ?", consultantID).Count(&count)

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   (int(count) + limit - 1) / limit,
	})
}
