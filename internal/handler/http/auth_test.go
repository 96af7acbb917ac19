package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/models"
)

func TestRegister_Created(t *testing.T) {
	router := newTestRouter(&service.Services{AuthService: &mockAuthService{}})

	body := `{"email":"john@example.com","password":"secret","name":"John"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "john@example.com", resp.User.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(ctx context.Context, user models.User) (models.User, error) {
			return models.User{}, store.ErrEmailAlreadyExists
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"email":"john@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_ReturnsTokenPair(t *testing.T) {
	router := newTestRouter(&service.Services{AuthService: &mockAuthService{}})

	body := `{"email":"john@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, "john@example.com", resp.User.Email)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	for name, loginErr := range map[string]error{
		"wrong password": service.ErrWrongPassword,
		"unknown user":   store.ErrNoUserWasFound,
	} {
		t.Run(name, func(t *testing.T) {
			err := loginErr
			auth := &mockAuthService{
				loginFn: func(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
					return models.User{}, models.TokenPair{}, err
				},
			}
			router := newTestRouter(&service.Services{AuthService: auth})

			body := `{"email":"john@example.com","password":"bad"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid email or password")
		})
	}
}

func TestVerifyEmail_MissingToken(t *testing.T) {
	router := newTestRouter(&service.Services{AuthService: &mockAuthService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyEmail_UnknownTokenBadRequest(t *testing.T) {
	auth := &mockAuthService{
		verifyEmailFn: func(ctx context.Context, token string) (models.User, error) {
			return models.User{}, fmt.Errorf("verify token lookup failed: %w", store.ErrTokenNotFound)
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token=consumed", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	// an unknown, expired or already-consumed token is the client's mistake
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_UnverifiedAccountUnauthorized(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
			return models.User{}, models.TokenPair{}, service.ErrAccountNotVerified
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"email":"john@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotPassword_UnknownEmailStillAccepted(t *testing.T) {
	auth := &mockAuthService{
		generateResetTokenFn: func(ctx context.Context, email string) error {
			return store.ErrNoUserWasFound
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"email":"nobody@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	// account existence must not be observable through this endpoint
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	auth := &mockAuthService{
		resetPasswordFn: func(ctx context.Context, token, newPassword string) error {
			return fmt.Errorf("reset token lookup failed: %w", store.ErrTokenNotFound)
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"token":"bogus","newPassword":"newsecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshToken_ReturnsNewAccessToken(t *testing.T) {
	router := newTestRouter(&service.Services{AuthService: &mockAuthService{}})

	body := `{"refreshToken":"refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new-access")
}
