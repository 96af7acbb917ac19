package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/payments"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// paymentService implements PaymentService. A payment row is the source of
// truth for checkout state: it is created as processing alongside the
// provider session and resolved exactly once by the webhook; the
// session-status endpoint only ever observes the row.
type paymentService struct {
	paymentRepository store.PaymentRepository
	stripe            payments.StripeClient
	clientURL         string
	pollAttempts      int
	pollInterval      time.Duration
	logger            *logger.Logger
}

// NewPaymentService constructs a PaymentService over the given repository
// and provider client. clientURL anchors the success/cancel redirect URLs.
func NewPaymentService(paymentRepository store.PaymentRepository, stripe payments.StripeClient, cfg config.Payments, clientURL string, logger *logger.Logger) PaymentService {
	return &paymentService{
		paymentRepository: paymentRepository,
		stripe:            stripe,
		clientURL:         clientURL,
		pollAttempts:      cfg.PollAttempts,
		pollInterval:      cfg.PollInterval,
		logger:            logger,
	}
}

// CreateCheckoutSession records a processing payment and opens a provider
// checkout session with the payment id round-tripped via metadata. Returns
// the stored payment and the session URL the client redirects to.
func (p *paymentService) CreateCheckoutSession(ctx context.Context, actor models.User, payment models.Payment) (models.Payment, string, error) {
	log := logger.FromContext(ctx)

	if payment.ProductName == "" || payment.Price <= 0 {
		return models.Payment{}, "", ErrInvalidDataProvided
	}

	payment.ID = utils.NewID()
	payment.Status = models.PaymentStatusProcessing
	payment.UserID = actor.UserID
	if payment.Email == "" {
		payment.Email = actor.Email
	}
	if payment.Name == "" {
		payment.Name = actor.Name
	}

	saved, err := p.paymentRepository.CreatePayment(ctx, payment)
	if err != nil {
		log.Err(err).Msg("payment creation ended with error")
		return models.Payment{}, "", fmt.Errorf("payment creation ended with error: %w", err)
	}

	session, err := p.stripe.CreateCheckoutSession(ctx, payments.CheckoutParams{
		ProductName: saved.ProductName,
		AmountCents: int64(math.Round(saved.Price * 100)),
		BookingID:   saved.ID,
		SuccessURL:  p.clientURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   p.clientURL + "/payment-cancelled",
	})
	if err != nil {
		log.Err(err).Str("paymentID", saved.ID).Msg("checkout session creation failed")
		return models.Payment{}, "", fmt.Errorf("checkout session creation failed: %w", err)
	}

	return saved, session.URL, nil
}

// HandleWebhookEvent resolves a payment from a provider webhook. The
// delivered payload is never trusted: the event is re-retrieved from the
// provider by id before anything is acted on.
//
// Errors:
//   - ErrUnexpectedWebhookEvent for event types other than a completed
//     checkout session.
//   - store.ErrNotFound when no payment matches the session metadata.
//   - ErrPaymentAlreadyResolved on webhook replays.
func (p *paymentService) HandleWebhookEvent(ctx context.Context, eventID string) (models.Payment, error) {
	log := logger.FromContext(ctx)

	if eventID == "" {
		return models.Payment{}, ErrInvalidDataProvided
	}

	event, err := p.stripe.GetEvent(ctx, eventID)
	if err != nil {
		log.Err(err).Str("eventID", eventID).Msg("webhook event readback failed")
		return models.Payment{}, fmt.Errorf("webhook event readback failed: %w", err)
	}

	if event.Type != payments.EventCheckoutCompleted {
		log.Error().Str("eventID", eventID).Str("type", event.Type).Msg("unexpected webhook event type")
		return models.Payment{}, ErrUnexpectedWebhookEvent
	}

	bookingID := event.Object.Metadata[payments.MetadataBookingID]
	if bookingID == "" {
		log.Error().Str("eventID", eventID).Msg("webhook session carries no booking id")
		return models.Payment{}, store.ErrNotFound
	}

	payment, err := p.paymentRepository.GetPayment(ctx, bookingID)
	if err != nil {
		return models.Payment{}, fmt.Errorf("webhook payment lookup failed: %w", err)
	}
	if payment.Resolved() {
		return models.Payment{}, ErrPaymentAlreadyResolved
	}

	resolved, err := p.paymentRepository.ResolvePayment(ctx, payment.ID, models.PaymentStatusSuccess, event.Object.PaymentIntent)
	if err != nil {
		return models.Payment{}, fmt.Errorf("resolving payment failed: %w", err)
	}

	log.Info().Str("paymentID", resolved.ID).Msg("payment resolved by webhook")
	return resolved, nil
}

// SessionStatus maps a provider session back to its payment and polls the
// row on a fixed interval until the webhook resolves it. The poll is
// bounded; when it exhausts its attempts the payment is still processing
// and ErrPaymentStillProcessing is returned.
func (p *paymentService) SessionStatus(ctx context.Context, sessionID string) (models.Payment, error) {
	log := logger.FromContext(ctx)

	if sessionID == "" {
		return models.Payment{}, ErrInvalidDataProvided
	}

	session, err := p.stripe.GetSession(ctx, sessionID)
	if err != nil {
		log.Err(err).Str("sessionID", sessionID).Msg("session readback failed")
		return models.Payment{}, fmt.Errorf("session readback failed: %w", err)
	}

	bookingID := session.Metadata[payments.MetadataBookingID]
	if bookingID == "" {
		return models.Payment{}, store.ErrNotFound
	}

	var payment models.Payment
	backoff := retry.WithMaxRetries(uint64(p.pollAttempts-1), retry.NewConstant(p.pollInterval))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		current, err := p.paymentRepository.GetPayment(ctx, bookingID)
		if err != nil {
			return err
		}
		if !current.Resolved() {
			return retry.RetryableError(ErrPaymentStillProcessing)
		}
		payment = current
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

// ListUserPayments retrieves the payments recorded against an email
// address, newest first.
func (p *paymentService) ListUserPayments(ctx context.Context, email string) ([]models.Payment, error) {
	if email == "" {
		return nil, ErrInvalidDataProvided
	}

	userPayments, err := p.paymentRepository.FindPaymentsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("payment listing failed: %w", err)
	}

	return userPayments, nil
}
