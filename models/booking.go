package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Booking is one scheduled consultation between a client and a consultant
// for a specific service at a specific slot. Bookings are never hard
// deleted; cancellation is a status change.
type Booking struct {
	gorm.Model
	ClientID        uint              `json:"client_id"`
	Client          ClientProfile     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ConsultantID    uint              `json:"consultant_id"`
	Consultant      ConsultantProfile `json:"consultant,omitempty" gorm:"foreignKey:ConsultantID"`
	ServiceID       uint              `json:"service_id"`
	Service         Service           `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	SlotID          uint              `json:"slot_id"`
	Slot            AvailabilitySlot  `json:"slot,omitempty" gorm:"foreignKey:SlotID"`
	StartTime       time.Time         `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          BookingStatus     `json:"status"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	PaymentRef      string            `json:"payment_ref,omitempty"`
	Notes           string            `json:"notes"`
	Documents       []Document        `json:"documents,omitempty" gorm:"foreignKey:BookingID"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}
	return nil
}

// CanTransition reports whether the status edge is legal. The only edges
// are pending->confirmed, pending->cancelled, confirmed->completed and
// confirmed->cancelled; completed and cancelled are terminal.
func (b *Booking) CanTransition(newStatus BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return newStatus == StatusConfirmed || newStatus == StatusCancelled
	case StatusConfirmed:
		return newStatus == StatusCompleted || newStatus == StatusCancelled
	default:
		return false
	}
}

// UpdateStatus moves the booking along a legal edge and persists it. On
// cancellation the reserved slot is released so it becomes bookable again;
// completion keeps the slot booked as a historical record.
func (b *Booking) UpdateStatus(tx *gorm.DB, newStatus BookingStatus) error {
	if !b.CanTransition(newStatus) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, b.Status, newStatus)
	}

	b.Status = newStatus
	if err := tx.Save(b).Error; err != nil {
		return err
	}

	if newStatus == StatusCancelled && b.SlotID != 0 {
		if err := ReleaseSlot(tx, b.SlotID); err != nil && !errors.Is(err, ErrSlotFree) {
			return err
		}
	}

	return nil
}
