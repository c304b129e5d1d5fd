package db

import (
	"log"

	"gorm.io/gorm"

	"github.com/consultbridge/consult-booking/models"
)

// Migrate runs AutoMigrate and seeds the fixed role set. Safe to re-run.
func Migrate() {
	err := DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.ConsultantProfile{},
		&models.ClientProfile{},
		&models.Service{},
		&models.AvailabilitySlot{},
		&models.Booking{},
		&models.Document{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	SeedRoles(DB)
	log.Println("Migrations applied")
}

// SeedRoles creates the client/consultant/admin roles if they don't exist.
func SeedRoles(gdb *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleClient, Description: "Client who books consultations"},
		{Name: models.RoleConsultant, Description: "Consultant who offers services"},
		{Name: models.RoleAdmin, Description: "Administrator with full access"},
	}
	for _, role := range roles {
		var existing models.Role
		if gdb.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			gdb.Create(&role)
		}
	}
}
