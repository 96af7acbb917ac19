// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 O-dots

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// verifyResetTokenBytes is the entropy of the opaque email tokens; 32 bytes
// hex-encode to 64 characters.
const verifyResetTokenBytes = 32

// authService is the concrete implementation of AuthService.
// It owns the account lifecycle (registration, email verification, login,
// password reset) and the JWT token lifecycle, using bcrypt for password
// hashing and a TokenRepository row per issued credential so every token is
// revocable server-side.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenRepository persists one row per issued credential.
	tokenRepository store.TokenRepository

	// emailSender dispatches verification and reset emails carrying the raw
	// opaque tokens.
	emailSender EmailSender

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// accessTokenDuration and refreshTokenDuration control the JWT pair's
	// lifetimes; verifyTokenDuration and resetTokenDuration bound the
	// opaque email tokens.
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
	verifyTokenDuration  time.Duration
	resetTokenDuration   time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// repositories and email sender, populated with security parameters from
// cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, tokenRepository store.TokenRepository, emailSender EmailSender, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:       userRepository,
		tokenRepository:      tokenRepository,
		emailSender:          emailSender,
		tokenSignKey:         cfg.TokenSignKey,
		tokenIssuer:          cfg.TokenIssuer,
		accessTokenDuration:  cfg.AccessTokenDuration,
		refreshTokenDuration: cfg.RefreshTokenDuration,
		verifyTokenDuration:  cfg.VerifyTokenDuration,
		resetTokenDuration:   cfg.ResetTokenDuration,
		logger:               logger,
	}
}

// Register creates a new unverified user account, persists an opaque
// email-verification token, and emails the raw token to the new address.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if email, password, or name is empty.
//   - A wrapped storage error if the repository call fails (e.g. email
//     already taken — see store.ErrEmailAlreadyExists).
func (a *authService) Register(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || user.Password == "" || user.Name == "" {
		log.Error().Str("email", user.Email).Msg("invalid registration data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	if err := user.SetPassword(user.Password); err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user.UserID = utils.NewID()
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsVerified = false

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	rawToken, err := utils.GenerateRandomToken(verifyResetTokenBytes)
	if err != nil {
		return models.User{}, fmt.Errorf("verify token generation failed: %w", err)
	}
	if _, err := a.persistTokenValue(ctx, registeredUser.UserID, rawToken, models.TokenPurposeVerify, a.verifyTokenDuration); err != nil {
		return models.User{}, err
	}

	if err := a.emailSender.SendVerificationEmail(ctx, registeredUser.Email, registeredUser.Name, rawToken); err != nil {
		log.Err(err).Str("email", registeredUser.Email).Msg("sending verification email failed")
		return models.User{}, fmt.Errorf("sending verification email failed: %w", err)
	}

	return registeredUser, nil
}

// VerifyEmail confirms an account from the opaque token sent at
// registration. The token is single-use: the row is deleted on success, so
// a second call fails with store.ErrTokenNotFound.
func (a *authService) VerifyEmail(ctx context.Context, token string) (models.User, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	tokenRecord, err := a.tokenRepository.FindToken(ctx, token, models.TokenPurposeVerify)
	if err != nil {
		log.Err(err).Msg("verify token lookup failed")
		return models.User{}, fmt.Errorf("verify token lookup failed: %w", err)
	}

	user, err := a.userRepository.FindUserByID(ctx, tokenRecord.UserID)
	if err != nil {
		log.Err(err).Str("userID", tokenRecord.UserID).Msg("user lookup for verification failed")
		return models.User{}, fmt.Errorf("user lookup for verification failed: %w", err)
	}

	if err := a.userRepository.MarkVerified(ctx, user.UserID); err != nil {
		return models.User{}, fmt.Errorf("marking user verified failed: %w", err)
	}
	user.IsVerified = true

	if err := a.tokenRepository.DeleteToken(ctx, tokenRecord.ID); err != nil {
		return models.User{}, fmt.Errorf("consuming verify token failed: %w", err)
	}

	return user, nil
}

// Login authenticates an existing user and issues a fresh access/refresh
// token pair, persisting both.
//
// Returns the user and pair or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - A wrapped storage error if the lookup fails (see store.ErrNoUserWasFound).
//   - ErrWrongPassword if the bcrypt comparison fails.
//   - ErrAccountNotVerified if the email was never confirmed.
func (a *authService) Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, models.TokenPair{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, models.TokenPair{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !user.ComparePassword(password) {
		log.Error().Str("email", email).Msg("wrong password")
		return models.User{}, models.TokenPair{}, ErrWrongPassword
	}

	if !user.IsVerified {
		log.Error().Str("email", email).Msg("account not verified")
		return models.User{}, models.TokenPair{}, ErrAccountNotVerified
	}

	pair, err := a.issueTokenPair(ctx, user.UserID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// RefreshAccessToken mints a new access token off a refresh token. The
// refresh token must carry a valid signature, unexpired claims, the refresh
// purpose, AND a persisted token row: deleting the row revokes the token
// even while its signature is still valid.
func (a *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	userID, err := a.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, err := a.issueToken(ctx, userID, models.TokenPurposeAccess, a.accessTokenDuration)
	if err != nil {
		return "", err
	}

	return accessToken, nil
}

// GenerateResetToken starts the password-reset flow for an email address:
// a fresh opaque token is generated, only its SHA-256 digest is persisted,
// and the raw token is emailed to the account. Any previous reset tokens
// for the account are dropped first, so only the newest link works.
func (a *authService) GenerateResetToken(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	rawToken, err := utils.GenerateRandomToken(verifyResetTokenBytes)
	if err != nil {
		return fmt.Errorf("reset token generation failed: %w", err)
	}

	if err := a.tokenRepository.DeleteUserTokens(ctx, user.UserID, models.TokenPurposeReset); err != nil {
		return fmt.Errorf("dropping previous reset tokens failed: %w", err)
	}

	// only the digest touches the database; the raw token goes to email
	if _, err := a.persistTokenValue(ctx, user.UserID, utils.HashToken(rawToken), models.TokenPurposeReset, a.resetTokenDuration); err != nil {
		return err
	}

	if err := a.emailSender.SendPasswordResetEmail(ctx, user.Email, user.Name, rawToken); err != nil {
		log.Err(err).Str("email", user.Email).Msg("sending reset email failed")
		return fmt.Errorf("sending reset email failed: %w", err)
	}

	return nil
}

// ResetPassword finishes the reset flow: the raw token from the email is
// re-hashed for lookup, the new password is bcrypt-hashed and stored, the
// reset token is consumed, and every outstanding refresh token for the
// account is revoked.
func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	if token == "" || newPassword == "" {
		return ErrInvalidDataProvided
	}

	tokenRecord, err := a.tokenRepository.FindToken(ctx, utils.HashToken(token), models.TokenPurposeReset)
	if err != nil {
		log.Err(err).Msg("reset token lookup failed")
		return fmt.Errorf("reset token lookup failed: %w", err)
	}

	user, err := a.userRepository.FindUserByID(ctx, tokenRecord.UserID)
	if err != nil {
		log.Err(err).Str("userID", tokenRecord.UserID).Msg("user lookup for reset failed")
		return fmt.Errorf("user lookup for reset failed: %w", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}
	if err := a.userRepository.UpdatePassword(ctx, user.UserID, user.HashedPassword); err != nil {
		return fmt.Errorf("updating password failed: %w", err)
	}

	if err := a.tokenRepository.DeleteToken(ctx, tokenRecord.ID); err != nil {
		return fmt.Errorf("consuming reset token failed: %w", err)
	}

	// a password change invalidates every live session
	if err := a.tokenRepository.DeleteUserTokens(ctx, user.UserID, models.TokenPurposeRefresh); err != nil {
		return fmt.Errorf("revoking refresh tokens failed: %w", err)
	}

	return nil
}

// Authenticate validates an access token and loads the user it belongs to.
//
// Returns:
//   - ErrTokenIsExpired for a well-formed token past its expiry (the
//     middleware's cue to try the silent-refresh path).
//   - ErrTokenInvalid for any other signature/claims/purpose failure.
//   - A wrapped storage error if the user row is gone.
func (a *authService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	log := logger.FromContext(ctx)

	claims, err := utils.ValidateAndParseJWTToken(accessToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if utils.IsTokenExpired(err) {
			return models.User{}, ErrTokenIsExpired
		}
		log.Err(err).Msg("access token validation failed")
		return models.User{}, ErrTokenInvalid
	}

	if claims.Purpose != models.TokenPurposeAccess {
		log.Error().Str("purpose", claims.Purpose).Msg("wrong token purpose on access path")
		return models.User{}, ErrTokenInvalid
	}

	user, err := a.userRepository.FindUserByID(ctx, claims.Subject)
	if err != nil {
		log.Err(err).Str("userID", claims.Subject).Msg("token user lookup failed")
		return models.User{}, fmt.Errorf("token user lookup failed: %w", err)
	}

	return user, nil
}

// RefreshCredentials rotates a complete token pair off a valid persisted
// refresh token: the old refresh row is consumed and a new access/refresh
// pair is issued and persisted.
func (a *authService) RefreshCredentials(ctx context.Context, refreshToken string) (models.User, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	userID, err := a.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Str("userID", userID).Msg("refresh user lookup failed")
		return models.User{}, models.TokenPair{}, fmt.Errorf("refresh user lookup failed: %w", err)
	}

	// rotation consumes the old refresh credential
	if err := a.tokenRepository.DeleteUserTokens(ctx, userID, models.TokenPurposeRefresh); err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("consuming refresh token failed: %w", err)
	}

	pair, err := a.issueTokenPair(ctx, userID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// validateRefreshToken checks signature, expiry, purpose, and the persisted
// row, returning the owning user id.
func (a *authService) validateRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		return "", ErrTokenInvalid
	}

	claims, err := utils.ValidateAndParseJWTToken(refreshToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if utils.IsTokenExpired(err) {
			return "", ErrTokenIsExpired
		}
		log.Err(err).Msg("refresh token validation failed")
		return "", ErrTokenInvalid
	}

	if claims.Purpose != models.TokenPurposeRefresh {
		log.Error().Str("purpose", claims.Purpose).Msg("wrong token purpose on refresh path")
		return "", ErrTokenInvalid
	}

	tokenRecord, err := a.tokenRepository.FindToken(ctx, refreshToken, models.TokenPurposeRefresh)
	if err != nil {
		// a valid signature without a row means the token was revoked
		log.Err(err).Str("userID", claims.Subject).Msg("refresh token has no persisted row")
		return "", ErrTokenInvalid
	}
	if tokenRecord.UserID != claims.Subject {
		log.Error().Str("userID", claims.Subject).Msg("refresh token row belongs to another user")
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

// issueTokenPair mints and persists a fresh access/refresh pair.
func (a *authService) issueTokenPair(ctx context.Context, userID string) (models.TokenPair, error) {
	accessToken, err := a.issueToken(ctx, userID, models.TokenPurposeAccess, a.accessTokenDuration)
	if err != nil {
		return models.TokenPair{}, err
	}

	refreshToken, err := a.issueToken(ctx, userID, models.TokenPurposeRefresh, a.refreshTokenDuration)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// issueToken signs a JWT for the given purpose and persists its row.
func (a *authService) issueToken(ctx context.Context, userID, purpose string, duration time.Duration) (string, error) {
	log := logger.FromContext(ctx)

	signed, err := utils.GenerateJWTToken(a.tokenIssuer, userID, purpose, duration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("purpose", purpose).Msg("token generation failed")
		return "", fmt.Errorf("token generation failed: %w", err)
	}

	if _, err := a.persistTokenValue(ctx, userID, signed, purpose, duration); err != nil {
		return "", err
	}

	return signed, nil
}

// persistTokenValue stores a credential row for the given value, which is
// either a raw token or a digest depending on the purpose.
func (a *authService) persistTokenValue(ctx context.Context, userID, value, purpose string, duration time.Duration) (models.Token, error) {
	log := logger.FromContext(ctx)

	saved, err := a.tokenRepository.SaveToken(ctx, models.Token{
		ID:        utils.NewID(),
		UserID:    userID,
		Token:     value,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(duration),
	})
	if err != nil {
		log.Err(err).Str("purpose", purpose).Msg("persisting token failed")
		return models.Token{}, fmt.Errorf("persisting token failed: %w", err)
	}

	return saved, nil
}
