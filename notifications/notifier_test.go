package notifications

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/consultbridge/consult-booking/models"
)

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
	if err := gdb.AutoMigrate(&models.Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gdb
}

func TestNotifierDelivers(t *testing.T) {
	gdb := openTestDB(t)

	n := New(gdb, 8)
	n.Start()

	n.Enqueue(Event{UserID: 1, Type: models.NotificationBookingCreated, Message: "booked"})
	n.Enqueue(Event{UserID: 2, Type: models.NotificationBookingConfirmed, Message: "confirmed"})
	n.Stop()

	var records []models.Notification
	if err := gdb.Order("id").Find(&records).Error; err != nil {
		t.Fatalf("failed to read notifications: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d notifications, want 2", len(records))
	}
	if records[0].UserID != 1 || records[0].Type != models.NotificationBookingCreated {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].ReadAt != nil {
		t.Fatal("new notifications must start unread")
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	gdb := openTestDB(t)

	// Worker never started, so the buffer fills and overflow is dropped
	// instead of blocking the caller.
	n := New(gdb, 1)
	n.Enqueue(Event{UserID: 1, Type: models.NotificationBookingCreated, Message: "kept"})
	n.Enqueue(Event{UserID: 2, Type: models.NotificationBookingCreated, Message: "dropped"})

	n.Start()
	n.Stop()

	var count int64
	gdb.Model(&models.Notification{}).Count(&count)
	if count != 1 {
		t.Fatalf("got %d notifications, want 1", count)
	}
}

func TestEmitWithoutDefault(t *testing.T) {
	prev := Default
	Default = nil
	defer func() { Default = prev }()

	// Must not panic when no notifier is running.
	Emit(1, models.NotificationBookingCreated, "noop")
}
