package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own migrated in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&Role{}, &User{}, &ConsultantProfile{}, &ClientProfile{},
		&Service{}, &AvailabilitySlot{}, &Booking{}, &Document{},
		&Review{}, &Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb
}

// seedParties creates a consultant and a client with their users and
// returns both profiles.
func seedParties(t *testing.T, gdb *gorm.DB) (*ConsultantProfile, *ClientProfile) {
	t.Helper()

	consultantUser := User{Name: "Dana", Email: "dana@example.com"}
	clientUser := User{Name: "Rene", Email: "rene@example.com"}
	if err := gdb.Create(&consultantUser).Error; err != nil {
		t.Fatalf("failed to create consultant user: %v", err)
	}
	if err := gdb.Create(&clientUser).Error; err != nil {
		t.Fatalf("failed to create client user: %v", err)
	}

	consultant := ConsultantProfile{UserID: consultantUser.ID, Specialty: "tax"}
	client := ClientProfile{UserID: clientUser.ID}
	if err := gdb.Create(&consultant).Error; err != nil {
		t.Fatalf("failed to create consultant profile: %v", err)
	}
	if err := gdb.Create(&client).Error; err != nil {
		t.Fatalf("failed to create client profile: %v", err)
	}

	return &consultant, &client
}
