package controllers

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
)

func setupPaymentDB(t *testing.T) *models.Booking {
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
		&models.User{}, &models.ConsultantProfile{}, &models.ClientProfile{},
		&models.Booking{}, &models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = gdb

	user := models.User{Name: "Rene", Email: "rene@example.com"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	client := models.ClientProfile{UserID: user.ID}
	if err := gdb.Create(&client).Error; err != nil {
		t.Fatalf("failed to create client profile: %v", err)
	}

	booking := models.Booking{ClientID: client.ID, PaymentRef: "pi_test_123"}
	if err := gdb.Create(&booking).Error; err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return &booking
}

func paymentStatusOf(t *testing.T, id uint) models.PaymentStatus {
	t.Helper()
	var booking models.Booking
	if err := db.DB.First(&booking, id).Error; err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	return booking.PaymentStatus
}

func TestApplyPaymentEventSucceeded(t *testing.T) {
	booking := setupPaymentDB(t)

	raw := json.RawMessage(fmt.Sprintf(
		`{"id":"pi_test_123","metadata":{"booking_id":"%d"}}`, booking.ID))
	if err := ApplyPaymentEvent("payment_intent.succeeded", raw); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got := paymentStatusOf(t, booking.ID); got != models.PaymentPaid {
		t.Fatalf("payment status = %s, want paid", got)
	}
}

func TestApplyPaymentEventRefund(t *testing.T) {
	booking := setupPaymentDB(t)

	// Refund events carry a Charge; the booking is resolved through the
	// charge's payment_intent, never the charge id itself.
	raw := json.RawMessage(`{"id":"ch_789","payment_intent":"pi_test_123"}`)
	if err := ApplyPaymentEvent("charge.refunded", raw); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got := paymentStatusOf(t, booking.ID); got != models.PaymentRefunded {
		t.Fatalf("payment status = %s, want refunded", got)
	}
}

func TestApplyPaymentEventRefundByMetadata(t *testing.T) {
	booking := setupPaymentDB(t)

	raw := json.RawMessage(fmt.Sprintf(
		`{"id":"ch_789","metadata":{"booking_id":"%d"}}`, booking.ID))
	if err := ApplyPaymentEvent("charge.refunded", raw); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got := paymentStatusOf(t, booking.ID); got != models.PaymentRefunded {
		t.Fatalf("payment status = %s, want refunded", got)
	}
}

func TestApplyPaymentEventRefundWithoutReference(t *testing.T) {
	booking := setupPaymentDB(t)

	raw := json.RawMessage(`{"id":"ch_789"}`)
	if err := ApplyPaymentEvent("charge.refunded", raw); err == nil {
		t.Fatal("expected error for a refund with no booking reference")
	}
	if got := paymentStatusOf(t, booking.ID); got != models.PaymentPending {
		t.Fatalf("payment status = %s, want pending", got)
	}
}

func TestApplyPaymentEventIgnoresUnknownType(t *testing.T) {
	booking := setupPaymentDB(t)

	raw := json.RawMessage(`{"id":"pi_test_123"}`)
	if err := ApplyPaymentEvent("customer.created", raw); err != nil {
		t.Fatalf("unknown event should be ignored, got %v", err)
	}
	if got := paymentStatusOf(t, booking.ID); got != models.PaymentPending {
		t.Fatalf("payment status = %s, want pending", got)
	}
}

func TestApplyPaymentEventUnknownBooking(t *testing.T) {
	setupPaymentDB(t)

	raw := json.RawMessage(`{"id":"pi_missing"}`)
	if err := ApplyPaymentEvent("payment_intent.succeeded", raw); err == nil {
		t.Fatal("expected error for unknown payment ref")
	}
}
