package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationBookingCreated     = "booking_created"
	NotificationBookingConfirmed   = "booking_confirmed"
	NotificationBookingCancelled   = "booking_cancelled"
	NotificationBookingCompleted   = "booking_completed"
	NotificationBookingRescheduled = "booking_rescheduled"
	NotificationPaymentReceived    = "payment_received"
)

// Notification is a side-channel record of an event for a user. Writes are
// best-effort and never fail the operation that triggered them.
type Notification struct {
	gorm.Model
	UserID  uint       `json:"user_id" gorm:"index"`
	Type    string     `json:"type"`
	Message string     `json:"message"`
	ReadAt  *time.Time `json:"read_at,omitempty"`
}
