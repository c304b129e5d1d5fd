package models

import (
	"gorm.io/gorm"
)

// Document is a client-supplied file attached to a booking. Attachments are
// append-only; there is no removal operation.
type Document struct {
	gorm.Model
	BookingID   uint   `json:"booking_id" gorm:"index"`
	FileName    string `json:"file_name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}
