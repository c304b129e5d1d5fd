package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"

	"github.com/consultbridge/consult-booking/config"
	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
	"github.com/consultbridge/consult-booking/notifications"
	"github.com/consultbridge/consult-booking/payments"
	"github.com/consultbridge/consult-booking/utils"
)

// CreatePaymentIntent opens a payment intent for a pending booking owned by
// the authenticated client.
func CreatePaymentIntent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type IntentInput struct {
		BookingID uint   `json:"booking_id"`
		Currency  string `json:"currency"`
	}

	input := new(IntentInput)
	if err := c.BodyParser(input); err != nil || input.BookingID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "booking_id is required",
		})
	}

	var booking models.Booking
	if err := db.DB.Preload("Service").Preload("Client").First(&booking, input.BookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    utils.CodeNotFound,
			Message: "Booking not found",
		})
	}

	if booking.Client.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "Only the booking's client may pay for it",
		})
	}

	if booking.PaymentStatus != models.PaymentPending {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Code:    utils.CodeConflict,
			Message: fmt.Sprintf("Booking payment is already %s", booking.PaymentStatus),
		})
	}

	intent, err := payments.CreateIntent(booking.Service.PriceCents, input.Currency, booking.ID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Code:    utils.CodeUpstream,
			Message: "Payment gateway error",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&booking).Update("payment_ref", intent.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to store payment reference",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(intent)
}

// PaymentWebhook maps gateway events onto paymentStatus. It is called by
// the payment collaborator, never by end users.
func PaymentWebhook(c *fiber.Ctx) error {
	event, err := payments.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"), config.App.StripeWebhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    utils.CodeValidation,
			Message: "Invalid webhook signature",
		})
	}

	if err := ApplyPaymentEvent(string(event.Type), event.Data.Raw); err != nil {
		log.Printf("payment webhook %s: %v", event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to apply payment event",
			Error:   err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// ApplyPaymentEvent updates the referenced booking's payment status from a
// verified gateway event payload. Intent events carry a PaymentIntent,
// refund events carry a Charge whose payment_intent field holds the ref
// the booking stored.
func ApplyPaymentEvent(eventType string, raw json.RawMessage) error {
	var status models.PaymentStatus
	var bookingID, paymentRef string

	switch eventType {
	case "payment_intent.succeeded":
		status = models.PaymentPaid
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(raw, &pi); err != nil {
			return fmt.Errorf("parse payment event: %w", err)
		}
		bookingID = pi.Metadata["booking_id"]
		paymentRef = pi.ID
	case "charge.refunded":
		status = models.PaymentRefunded
		var ch stripe.Charge
		if err := json.Unmarshal(raw, &ch); err != nil {
			return fmt.Errorf("parse refund event: %w", err)
		}
		bookingID = ch.Metadata["booking_id"]
		if ch.PaymentIntent != nil {
			paymentRef = ch.PaymentIntent.ID
		}
	default:
		// Events outside the mapping are acknowledged and ignored.
		return nil
	}

	var booking models.Booking
	if bookingID != "" {
		id, err := strconv.ParseUint(bookingID, 10, 64)
		if err != nil {
			return fmt.Errorf("bad booking_id metadata %q", bookingID)
		}
		if err := db.DB.Preload("Client").First(&booking, uint(id)).Error; err != nil {
			return fmt.Errorf("booking %s not found", bookingID)
		}
	} else {
		if paymentRef == "" {
			return fmt.Errorf("%s event carries no booking reference", eventType)
		}
		if err := db.DB.Preload("Client").Where("payment_ref = ?", paymentRef).First(&booking).Error; err != nil {
			return fmt.Errorf("no booking for payment ref %s", paymentRef)
		}
	}

	if err := db.DB.Model(&booking).Update("payment_status", status).Error; err != nil {
		return err
	}

	if status == models.PaymentPaid {
		notifications.Emit(booking.Client.UserID, models.NotificationPaymentReceived,
			fmt.Sprintf("Payment received for booking #%d", booking.ID))
	}
	return nil
}
