package models

import (
	"gorm.io/gorm"
)

// Service is a standalone offering referencing its owning consultant.
// Consultant detail responses embed services through a read-time preload,
// never a stored copy.
type Service struct {
	gorm.Model
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	PriceCents      int64             `json:"price_cents"`
	DurationMinutes int               `json:"duration_minutes"`
	Category        string            `json:"category"`
	ConsultantID    uint              `json:"consultant_id"`
	Consultant      ConsultantProfile `json:"consultant" gorm:"foreignKey:ConsultantID"`
}
