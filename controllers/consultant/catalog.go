package consultant

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/utils"
)

// ConsultantSummary is the catalog list row. Name and avatar come from
// the owning user at read time.
type ConsultantSummary struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	AvatarURL     string  `json:"avatar_url"`
	Specialty     string  `json:"specialty"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// ListConsultants is the public, cacheable catalog listing. Supports
// ?specialty= and ?min_rating= filters plus page/limit.
func ListConsultants(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := db.DB.Model(&models.ConsultantProfile{}).
		Select(`consultant_profiles.id, users.name, users.avatar_url,
			consultant_profiles.specialty, consultant_profiles.average_rating,
			consultant_profiles.review_count`).
		Joins("JOIN users ON users.id = consultant_profiles.user_id").
		Where("consultant_profiles.deleted_at IS NULL")

	if specialty := c.Query("specialty"); specialty != "" {
		query = query.Where("consultant_profiles.specialty = ?", specialty)
	}
	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Code:    utils.CodeValidation,
				Message: "min_rating must be a number",
			})
		}
		query = query.Where("consultant_profiles.average_rating >= ?", minRating)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch consultants",
			Error:   err.Error(),
		})
	}

	var summaries []ConsultantSummary
	if err := query.Order("consultant_profiles.average_rating DESC").
		Limit(limit).Offset(offset).Scan(&summaries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch consultants",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"consultants": summaries,
		"total":       count,
		"page":        page,
		"limit":       limit,
		"pages":       (int(count) + limit - 1) / limit,
	})
}

// GetConsultant is the public detail view: profile, owning user's public
// fields and the consultant's services, assembled at read time.
func GetConsultant(c *fiber.Ctx) error {
	consultantID := c.Params("id")

	var profile models.ConsultantProfile
	if err := db.DB.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, name, avatar_url")
	}).First(&profile, consultantID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Consultant not found",
		})
	}

	var services []models.Service
	if err := db.DB.Where("consultant_id = ?", profile.ID).Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch services",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"consultant": profile,
		"services":   services,
	})
}
