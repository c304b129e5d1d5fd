package payments

import (
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Init sets the Stripe API key for the process.
func Init(secretKey string) {
	stripe.Key = secretKey
}

// Intent is the subset of the gateway response the booking flow needs.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreateIntent opens a payment intent for a booking's price. The booking ID
// rides along as metadata so the webhook can map the payment back.
func CreateIntent(amountCents int64, currency string, bookingID uint) (*Intent, error) {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("booking_id", strconv.FormatUint(uint64(bookingID), 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// VerifyWebhook checks the Stripe signature and returns the parsed event.
func VerifyWebhook(payload []byte, signature, secret string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("verify webhook signature: %w", err)
	}
	return event, nil
}
