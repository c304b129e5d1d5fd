package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrSlotTaken = errors.New("slot already booked")
	ErrSlotFree  = errors.New("slot is not booked")
)

// AvailabilitySlot is a bookable date+time block for a consultant.
type AvailabilitySlot struct {
	gorm.Model
	ConsultantID    uint              `json:"consultant_id" gorm:"uniqueIndex:idx_consultant_start"`
	Consultant      ConsultantProfile `json:"consultant,omitempty" gorm:"foreignKey:ConsultantID"`
	StartTime       time.Time         `json:"start_time" gorm:"uniqueIndex:idx_consultant_start"`
	DurationMinutes int               `json:"duration_minutes"`
	IsBooked        bool              `json:"is_booked"`
}

// ReserveSlot flips is_booked false->true as a single conditional update.
// Zero rows affected means another booking won the slot; callers must treat
// that as a conflict and roll back.
func ReserveSlot(tx *gorm.DB, slotID uint) error {
	res := tx.Model(&AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Update("is_booked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotTaken
	}
	return nil
}

// ReleaseSlot flips is_booked true->false so a cancelled booking's slot
// becomes bookable again.
func ReleaseSlot(tx *gorm.DB, slotID uint) error {
	res := tx.Model(&AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", slotID, true).
		Update("is_booked", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotFree
	}
	return nil
}
