package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// checkoutSessionResponse is the body of a successful
// POST /api/payments/create-checkout-session.
type checkoutSessionResponse struct {
	URL     string         `json:"url"`
	Payment models.Payment `json:"payment"`
}

func (h *Handler) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	saved, url, err := h.services.PaymentService.CreateCheckoutSession(ctx, actor, payment)
	if err != nil {
		h.respondError(w, r, err, "creating checkout session failed")
		return
	}

	_, _ = utils.WriteJSON(w, checkoutSessionResponse{URL: url, Payment: saved}, http.StatusCreated)
}

// stripeWebhook handles provider event deliveries. Only the event id is read
// from the request body; the event itself is re-retrieved from the provider
// before any state changes, so a forged payload cannot resolve a payment.
func (h *Handler) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var delivery struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&delivery); err != nil || delivery.ID == "" {
		log.Err(err).Msg("malformed webhook delivery")
		http.Error(w, "malformed webhook delivery", http.StatusBadRequest)
		return
	}

	payment, err := h.services.PaymentService.HandleWebhookEvent(ctx, delivery.ID)
	if err != nil {
		// a redelivered event for a settled payment is acknowledged so the
		// provider stops retrying
		if errors.Is(err, service.ErrPaymentAlreadyResolved) {
			log.Debug().Str("event", delivery.ID).Msg("webhook redelivery for resolved payment")
			_, _ = utils.WriteJSON(w, map[string]bool{"received": true}, http.StatusOK)
			return
		}
		h.respondError(w, r, err, "handling webhook event failed")
		return
	}

	log.Info().Str("event", delivery.ID).Str("payment", payment.ID).Msg("payment resolved by webhook")
	_, _ = utils.WriteJSON(w, map[string]bool{"received": true}, http.StatusOK)
}

func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		log.Err(service.ErrInvalidDataProvided).Msg("sessionId query parameter missing")
		http.Error(w, "sessionId query parameter missing", http.StatusBadRequest)
		return
	}

	payment, err := h.services.PaymentService.SessionStatus(ctx, sessionID)
	if err != nil {
		h.respondError(w, r, err, "resolving session status failed")
		return
	}

	_, _ = utils.WriteJSON(w, payment, http.StatusOK)
}

func (h *Handler) listUserPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		email = actor.Email
	}
	if email != actor.Email && !actor.IsAdmin() {
		h.respondError(w, r, service.ErrNotAllowed, "payment history access denied")
		return
	}

	paymentsList, err := h.services.PaymentService.ListUserPayments(ctx, email)
	if err != nil {
		h.respondError(w, r, err, "listing user payments failed")
		return
	}

	_, _ = utils.WriteJSON(w, paymentsList, http.StatusOK)
}
