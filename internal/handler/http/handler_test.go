package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/models"
)

// ─────────────────────────────────────────────
// Mock: service.AuthService
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn           func(ctx context.Context, user models.User) (models.User, error)
	verifyEmailFn        func(ctx context.Context, token string) (models.User, error)
	loginFn              func(ctx context.Context, email, password string) (models.User, models.TokenPair, error)
	refreshAccessTokenFn func(ctx context.Context, refreshToken string) (string, error)
	generateResetTokenFn func(ctx context.Context, email string) error
	resetPasswordFn      func(ctx context.Context, token, newPassword string) error
	authenticateFn       func(ctx context.Context, accessToken string) (models.User, error)
	refreshCredentialsFn func(ctx context.Context, refreshToken string) (models.User, models.TokenPair, error)
}

func (m *mockAuthService) Register(ctx context.Context, user models.User) (models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, user)
	}
	user.UserID = "u-1"
	user.Role = models.RoleUser
	return user, nil
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, token string) (models.User, error) {
	if m.verifyEmailFn != nil {
		return m.verifyEmailFn(ctx, token)
	}
	return models.User{UserID: "u-1", IsVerified: true}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return models.User{UserID: "u-1", Email: email},
		models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if m.refreshAccessTokenFn != nil {
		return m.refreshAccessTokenFn(ctx, refreshToken)
	}
	return "new-access", nil
}

func (m *mockAuthService) GenerateResetToken(ctx context.Context, email string) error {
	if m.generateResetTokenFn != nil {
		return m.generateResetTokenFn(ctx, email)
	}
	return nil
}

func (m *mockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(ctx, token, newPassword)
	}
	return nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, accessToken)
	}
	return models.User{UserID: "u-1", Email: "john@example.com", Name: "John", Role: models.RoleUser}, nil
}

func (m *mockAuthService) RefreshCredentials(ctx context.Context, refreshToken string) (models.User, models.TokenPair, error) {
	if m.refreshCredentialsFn != nil {
		return m.refreshCredentialsFn(ctx, refreshToken)
	}
	return models.User{UserID: "u-1"},
		models.TokenPair{AccessToken: "rotated-access", RefreshToken: "rotated-refresh"}, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestRouter wires a full router over the given service mocks with rate
// limiting disabled.
func newTestRouter(services *service.Services) *chi.Mux {
	h := NewHandler(services, nil, &config.StructuredConfig{}, logger.Nop())
	return h.Init()
}

func authed(r *http.Request) *http.Request {
	r.Header.Set("Authorization", "Bearer token")
	return r
}

// adminAuthService authenticates every request as an admin.
func adminAuthService() *mockAuthService {
	return &mockAuthService{
		authenticateFn: func(ctx context.Context, accessToken string) (models.User, error) {
			return models.User{UserID: "a-1", Email: "ada@example.com", Name: "Ada", Role: models.RoleAdmin}, nil
		},
	}
}
