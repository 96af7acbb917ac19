// Package payments wraps the Stripe REST API used by the checkout flow.
// Only the three calls the platform needs are implemented: creating a
// checkout session, re-retrieving a webhook event, and retrieving a session.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/o-dots/backend/internal/config"
)

const defaultStripeBaseURL = "https://api.stripe.com"

// EventCheckoutCompleted is the only event type the webhook acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// MetadataBookingID is the metadata key carrying the platform's payment id
// through Stripe and back via the webhook.
const MetadataBookingID = "bookingid"

var (
	// ErrStripeRequestFailed is returned when Stripe answers with a
	// non-2xx status.
	ErrStripeRequestFailed = errors.New("stripe request failed")
)

// CheckoutSession is the subset of Stripe's checkout session object the
// platform reads.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

// Event is the subset of a Stripe webhook event the platform reads. Object
// is only populated for checkout-session events.
type Event struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Object CheckoutSession
}

// UnmarshalJSON unpacks the nested data.object envelope Stripe wraps event
// payloads in.
func (e *Event) UnmarshalJSON(raw []byte) error {
	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err
	}

	e.ID = envelope.ID
	e.Type = envelope.Type
	if len(envelope.Data.Object) > 0 {
		if err := json.Unmarshal(envelope.Data.Object, &e.Object); err != nil {
			return err
		}
	}

	return nil
}

// CheckoutParams carries the inputs for creating a checkout session.
type CheckoutParams struct {
	ProductName string
	// AmountCents is the unit amount in the currency's smallest unit.
	AmountCents int64
	Currency    string
	// BookingID is the platform payment id, round-tripped via metadata.
	BookingID  string
	SuccessURL string
	CancelURL  string
}

// StripeClient is the outbound payment-provider surface the payment service
// depends on.
type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
	GetEvent(ctx context.Context, eventID string) (Event, error)
	GetSession(ctx context.Context, sessionID string) (CheckoutSession, error)
}

type stripeClient struct {
	client *resty.Client
}

// NewStripeClient constructs a [StripeClient] authenticated with the secret
// key from cfg. StripeBaseURL overrides the production endpoint in tests.
func NewStripeClient(cfg config.Payments) StripeClient {
	baseURL := cfg.StripeBaseURL
	if baseURL == "" {
		baseURL = defaultStripeBaseURL
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetAuthToken(cfg.StripeSecretKey)

	return &stripeClient{client: cli}
}

// CreateCheckoutSession creates a one-item payment-mode checkout session
// with the platform payment id in metadata.
func (s *stripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error) {
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	var session CheckoutSession
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"mode":                                       "payment",
			"success_url":                                params.SuccessURL,
			"cancel_url":                                 params.CancelURL,
			"line_items[0][quantity]":                    "1",
			"line_items[0][price_data][currency]":        currency,
			"line_items[0][price_data][unit_amount]":     strconv.FormatInt(params.AmountCents, 10),
			"line_items[0][price_data][product_data][name]": params.ProductName,
			"metadata[" + MetadataBookingID + "]":           params.BookingID,
		}).
		SetResult(&session).
		Post("/v1/checkout/sessions")
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session request: %w", err)
	}
	if err := checkStripeStatus(resp); err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

// GetEvent re-retrieves a webhook event by id. The webhook handler never
// trusts the delivered payload; this server-side readback is what it acts
// on.
func (s *stripeClient) GetEvent(ctx context.Context, eventID string) (Event, error) {
	var event Event
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&event).
		Get("/v1/events/" + eventID)
	if err != nil {
		return Event{}, fmt.Errorf("get event request: %w", err)
	}
	if err := checkStripeStatus(resp); err != nil {
		return Event{}, err
	}

	return event, nil
}

// GetSession retrieves a checkout session by id.
func (s *stripeClient) GetSession(ctx context.Context, sessionID string) (CheckoutSession, error) {
	var session CheckoutSession
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&session).
		Get("/v1/checkout/sessions/" + sessionID)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("get checkout session request: %w", err)
	}
	if err := checkStripeStatus(resp); err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

func checkStripeStatus(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return fmt.Errorf("%w: status %d: %s", ErrStripeRequestFailed, resp.StatusCode(), resp.String())
}
