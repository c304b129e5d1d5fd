package models

import (
	"gorm.io/gorm"
)

// ConsultantProfile is the consultant-facing profile owned by exactly one user.
// AverageRating and ReviewCount are derived from reviews and are only written
// by RecomputeConsultantRating.
type ConsultantProfile struct {
	gorm.Model
	UserID        uint    `json:"user_id" gorm:"uniqueIndex"`
	User          User    `json:"user" gorm:"foreignKey:UserID"`
	Specialty     string  `json:"specialty"`
	Bio           string  `json:"bio"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// ClientProfile is created lazily on first booking or first login.
type ClientProfile struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"uniqueIndex"`
	User           User   `json:"user" gorm:"foreignKey:UserID"`
	ProfilePicture string `json:"profile_picture"`
}

// EnsureConsultantProfile fetches the profile for userID, creating it on
// first sight.
func EnsureConsultantProfile(tx *gorm.DB, userID uint) (*ConsultantProfile, error) {
	var profile ConsultantProfile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	profile = ConsultantProfile{UserID: userID}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureClientProfile fetches the profile for userID, creating it on first
// sight.
func EnsureClientProfile(tx *gorm.DB, userID uint) (*ClientProfile, error) {
	var profile ClientProfile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	profile = ClientProfile{UserID: userID}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
