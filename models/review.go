package models

import (
	"gorm.io/gorm"
)

// Review is authored by the booking's client once the booking completes.
// At most one live review exists per booking; the partial index keeps
// soft-deleted rows from blocking a replacement.
type Review struct {
	gorm.Model
	BookingID    uint              `json:"booking_id" gorm:"uniqueIndex:idx_reviews_booking,where:deleted_at IS NULL"`
	Booking      Booking           `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	ClientID     uint              `json:"client_id"`
	Client       ClientProfile     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ConsultantID uint              `json:"consultant_id"`
	Consultant   ConsultantProfile `json:"consultant,omitempty" gorm:"foreignKey:ConsultantID"`
	Rating       int               `json:"rating" gorm:"not null"`
	Comment      string            `json:"comment"`
}

// BeforeCreate clamps the rating into the 1-5 range.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1 {
		r.Rating = 1
	} else if r.Rating > 5 {
		r.Rating = 5
	}
	return nil
}

// HasExistingReview reports whether this booking already carries a review.
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("booking_id = ? AND deleted_at IS NULL", r.BookingID).
		Count(&count).Error
	return count > 0, err
}

// RecomputeConsultantRating rewrites the consultant's derived average rating
// and review count from all live reviews. 0/0 when none exist. Called inside
// the same transaction as any review write.
func RecomputeConsultantRating(tx *gorm.DB, consultantID uint) error {
	var agg struct {
		AvgRating float64
		Count     int64
	}
	err := tx.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) as avg_rating, COUNT(*) as count").
		Where("consultant_id = ? AND deleted_at IS NULL", consultantID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&ConsultantProfile{}).
		Where("id = ?", consultantID).
		Updates(map[string]interface{}{
			"average_rating": agg.AvgRating,
			"review_count":   agg.Count,
		}).Error
}
