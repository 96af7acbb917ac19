package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/models"
)

// ─────────────────────────────────────────────
// Mock: service.PaymentService
// ─────────────────────────────────────────────

type mockPaymentService struct {
	createCheckoutFn   func(ctx context.Context, actor models.User, payment models.Payment) (models.Payment, string, error)
	handleWebhookFn    func(ctx context.Context, eventID string) (models.Payment, error)
	sessionStatusFn    func(ctx context.Context, sessionID string) (models.Payment, error)
	listUserPaymentsFn func(ctx context.Context, email string) ([]models.Payment, error)
}

func (m *mockPaymentService) CreateCheckoutSession(ctx context.Context, actor models.User, payment models.Payment) (models.Payment, string, error) {
	if m.createCheckoutFn != nil {
		return m.createCheckoutFn(ctx, actor, payment)
	}
	payment.ID = "p-1"
	payment.Status = models.PaymentStatusProcessing
	return payment, "https://stripe.test/session", nil
}

func (m *mockPaymentService) HandleWebhookEvent(ctx context.Context, eventID string) (models.Payment, error) {
	if m.handleWebhookFn != nil {
		return m.handleWebhookFn(ctx, eventID)
	}
	return models.Payment{ID: "p-1", Status: models.PaymentStatusSuccess}, nil
}

func (m *mockPaymentService) SessionStatus(ctx context.Context, sessionID string) (models.Payment, error) {
	if m.sessionStatusFn != nil {
		return m.sessionStatusFn(ctx, sessionID)
	}
	return models.Payment{ID: "p-1", Status: models.PaymentStatusSuccess}, nil
}

func (m *mockPaymentService) ListUserPayments(ctx context.Context, email string) ([]models.Payment, error) {
	if m.listUserPaymentsFn != nil {
		return m.listUserPaymentsFn(ctx, email)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

func TestCreateCheckoutSession_ReturnsRedirectURL(t *testing.T) {
	router := newTestRouter(&service.Services{
		AuthService:    &mockAuthService{},
		PaymentService: &mockPaymentService{},
	})

	body := `{"productName":"Course A","price":49.99}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/payments/create-checkout-session", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://stripe.test/session")
}

func TestStripeWebhook_Acknowledged(t *testing.T) {
	var handledEvent string
	payments := &mockPaymentService{
		handleWebhookFn: func(ctx context.Context, eventID string) (models.Payment, error) {
			handledEvent = eventID
			return models.Payment{ID: "p-1", Status: models.PaymentStatusSuccess}, nil
		},
	}
	router := newTestRouter(&service.Services{PaymentService: payments})

	body := `{"id":"evt_1","type":"checkout.session.completed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/stripewebhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "evt_1", handledEvent)
	assert.Contains(t, rec.Body.String(), "received")
}

func TestStripeWebhook_RedeliveryStillAcknowledged(t *testing.T) {
	payments := &mockPaymentService{
		handleWebhookFn: func(ctx context.Context, eventID string) (models.Payment, error) {
			return models.Payment{}, service.ErrPaymentAlreadyResolved
		},
	}
	router := newTestRouter(&service.Services{PaymentService: payments})

	body := `{"id":"evt_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/stripewebhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	// a 2xx stops the provider from retrying a settled payment
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStripeWebhook_MissingEventID(t *testing.T) {
	router := newTestRouter(&service.Services{PaymentService: &mockPaymentService{}})

	req := httptest.NewRequest(http.MethodPost, "/api/payments/stripewebhook", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionStatus_StillProcessingTimesOut(t *testing.T) {
	payments := &mockPaymentService{
		sessionStatusFn: func(ctx context.Context, sessionID string) (models.Payment, error) {
			return models.Payment{}, service.ErrPaymentStillProcessing
		},
	}
	router := newTestRouter(&service.Services{
		AuthService:    &mockAuthService{},
		PaymentService: payments,
	})

	req := authed(httptest.NewRequest(http.MethodGet, "/api/payments/session-status?sessionId=cs_test", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
}

func TestSessionStatus_MissingSessionID(t *testing.T) {
	router := newTestRouter(&service.Services{
		AuthService:    &mockAuthService{},
		PaymentService: &mockPaymentService{},
	})

	req := authed(httptest.NewRequest(http.MethodGet, "/api/payments/session-status", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUserPayments_ForeignEmailForbidden(t *testing.T) {
	router := newTestRouter(&service.Services{
		AuthService:    &mockAuthService{},
		PaymentService: &mockPaymentService{},
	})

	req := authed(httptest.NewRequest(http.MethodGet, "/api/payments/user?email=other@example.com", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListUserPayments_DefaultsToOwnEmail(t *testing.T) {
	var requestedEmail string
	payments := &mockPaymentService{
		listUserPaymentsFn: func(ctx context.Context, email string) ([]models.Payment, error) {
			requestedEmail = email
			return []models.Payment{{ID: "p-1"}}, nil
		},
	}
	router := newTestRouter(&service.Services{
		AuthService:    &mockAuthService{},
		PaymentService: payments,
	})

	req := authed(httptest.NewRequest(http.MethodGet, "/api/payments/user", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "john@example.com", requestedEmail)
}
