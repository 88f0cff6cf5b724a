package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

// Configured returns true if a secret key is set.
func (c *Client) Configured() bool {
	return c.cfg.SecretKey != ""
}

type IntentParams struct {
	// Amount is in the currency's minor unit.
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	NextAction   *stripe.PaymentIntentNextAction
}

// CreatePaymentIntent creates a PaymentIntent with automatic payment methods.
func (c *Client) CreatePaymentIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(strings.ToLower(p.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		NextAction:   pi.NextAction,
	}, nil
}

// ConstructWebhookEvent verifies the signature and returns the parsed event.
// Events rendered for a different API version than the library are accepted.
func (c *Client) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, c.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true, "mga": true,
	"pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// ErrInvalidAmount is returned for amounts that cannot be charged.
var ErrInvalidAmount = errors.New("invalid amount")

// ToMinorUnits converts a major-unit amount to the integer Stripe expects.
// Amounts with more precision than the currency allows are rejected.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	minor := amount
	if !zeroDecimalCurrencies[strings.ToLower(currency)] {
		minor = amount.Shift(2)
	}
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: too many decimal places for %s", ErrInvalidAmount, strings.ToUpper(currency))
	}
	return minor.IntPart(), nil
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(amount int64, currency string) decimal.Decimal {
	d := decimal.NewFromInt(amount)
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return d
	}
	return d.Shift(-2)
}
