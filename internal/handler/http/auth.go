package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

func userSummary(user models.User) models.UserSummary {
	return models.UserSummary{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registered, err := h.services.AuthService.Register(ctx, models.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.respondError(w, r, err, "user registration failed")
		return
	}

	log.Debug().Str("email", registered.Email).Msg("user registered, verification email sent")

	summary := userSummary(registered)
	_, _ = utils.WriteJSON(w, models.MessageResponse{
		Message: "registration successful, check your email to verify your account",
		User:    &summary,
	}, http.StatusCreated)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Err(service.ErrTokenInvalid).Msg("verification token missing")
		http.Error(w, "verification token missing", http.StatusBadRequest)
		return
	}

	verified, err := h.services.AuthService.VerifyEmail(ctx, token)
	if err != nil {
		h.respondError(w, r, err, "email verification failed")
		return
	}

	summary := userSummary(verified)
	_, _ = utils.WriteJSON(w, models.MessageResponse{
		Message: "email verified",
		User:    &summary,
	}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, pair, err := h.services.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		// a missing account and a wrong password are indistinguishable to
		// the caller
		if errors.Is(err, store.ErrNoUserWasFound) || errors.Is(err, service.ErrWrongPassword) {
			log.Err(err).Msg("login rejected")
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.respondError(w, r, err, "login failed")
		return
	}

	log.Debug().Str("email", user.Email).Msg("user logged in")

	_, _ = utils.WriteJSON(w, models.LoginResponse{
		User:         userSummary(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, http.StatusOK)
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	accessToken, err := h.services.AuthService.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		h.respondError(w, r, err, "access token refresh failed")
		return
	}

	_, _ = utils.WriteJSON(w, struct {
		AccessToken string `json:"accessToken"`
	}{AccessToken: accessToken}, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	err := h.services.AuthService.GenerateResetToken(ctx, req.Email)
	if err != nil && !errors.Is(err, store.ErrNoUserWasFound) {
		h.respondError(w, r, err, "generating reset token failed")
		return
	}
	if err != nil {
		// an unknown email gets the same answer as a known one
		log.Debug().Str("email", req.Email).Msg("reset requested for unknown email")
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{
		Message: "if the email exists, a reset link has been sent",
	}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		h.respondError(w, r, err, "password reset failed")
		return
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{
		Message: "password has been reset",
	}, http.StatusOK)
}
