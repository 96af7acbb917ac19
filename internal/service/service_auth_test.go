// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 O-dots

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createFn         func(ctx context.Context, user models.User) (models.User, error)
	findByEmailFn    func(ctx context.Context, email string) (models.User, error)
	findByIDFn       func(ctx context.Context, userID string) (models.User, error)
	updatePasswordFn func(ctx context.Context, userID string, hashedPassword string) error
	markVerifiedFn   func(ctx context.Context, userID string) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, userID)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID string, hashedPassword string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, hashedPassword)
	}
	return nil
}

func (m *mockUserRepository) MarkVerified(ctx context.Context, userID string) error {
	if m.markVerifiedFn != nil {
		return m.markVerifiedFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.TokenRepository
// ─────────────────────────────────────────────

type mockTokenRepository struct {
	saveFn          func(ctx context.Context, token models.Token) (models.Token, error)
	findFn          func(ctx context.Context, token string, purpose string) (models.Token, error)
	deleteFn        func(ctx context.Context, tokenID string) error
	deleteUserFn    func(ctx context.Context, userID string, purpose string) error
	deleteExpiredFn func(ctx context.Context, before time.Time) (int64, error)
}

func (m *mockTokenRepository) SaveToken(ctx context.Context, token models.Token) (models.Token, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, token)
	}
	return token, nil
}

func (m *mockTokenRepository) FindToken(ctx context.Context, token string, purpose string) (models.Token, error) {
	if m.findFn != nil {
		return m.findFn(ctx, token, purpose)
	}
	return models.Token{}, store.ErrTokenNotFound
}

func (m *mockTokenRepository) DeleteToken(ctx context.Context, tokenID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tokenID)
	}
	return nil
}

func (m *mockTokenRepository) DeleteUserTokens(ctx context.Context, userID string, purpose string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, userID, purpose)
	}
	return nil
}

func (m *mockTokenRepository) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, before)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: EmailSender
// ─────────────────────────────────────────────

type mockEmailSender struct {
	verificationFn func(ctx context.Context, to, name, token string) error
	resetFn        func(ctx context.Context, to, name, token string) error
}

func (m *mockEmailSender) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	if m.verificationFn != nil {
		return m.verificationFn(ctx, to, name, token)
	}
	return nil
}

func (m *mockEmailSender) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	if m.resetFn != nil {
		return m.resetFn(ctx, to, name, token)
	}
	return nil
}

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

const (
	testSignKey = "test-sign-key"
	testIssuer  = "test-issuer"
)

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:         testSignKey,
		TokenIssuer:          testIssuer,
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		VerifyTokenDuration:  24 * time.Hour,
		ResetTokenDuration:   time.Hour,
	}
}

func newTestAuthService(users *mockUserRepository, tokens *mockTokenRepository, emails *mockEmailSender) AuthService {
	return NewAuthService(users, tokens, emails, testAppConfig(), logger.Nop())
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()

	var savedToken models.Token
	var emailedToken string

	users := &mockUserRepository{}
	tokens := &mockTokenRepository{
		saveFn: func(ctx context.Context, token models.Token) (models.Token, error) {
			savedToken = token
			return token, nil
		},
	}
	emails := &mockEmailSender{
		verificationFn: func(ctx context.Context, to, name, token string) error {
			emailedToken = token
			return nil
		},
	}

	svc := newTestAuthService(users, tokens, emails)

	registered, err := svc.Register(ctx, models.User{
		Email:    "John@Example.com ",
		Password: "secret-password",
		Name:     "John",
	})
	require.NoError(t, err)

	assert.Equal(t, "john@example.com", registered.Email)
	assert.NotEmpty(t, registered.UserID)
	assert.Equal(t, models.RoleUser, registered.Role)
	assert.False(t, registered.IsVerified)

	// password is hashed exactly once, plaintext cleared
	assert.Empty(t, registered.Password)
	assert.NotEmpty(t, registered.HashedPassword)
	assert.NotEqual(t, "secret-password", registered.HashedPassword)
	assert.True(t, registered.ComparePassword("secret-password"))

	// the raw verify token is persisted and emailed verbatim
	assert.Equal(t, models.TokenPurposeVerify, savedToken.Purpose)
	assert.Equal(t, savedToken.Token, emailedToken)
	assert.Len(t, emailedToken, 64)
}

func TestRegister_InvalidData(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, &mockEmailSender{})

	_, err := svc.Register(ctx, models.User{Email: "john@example.com"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepository{
		createFn: func(ctx context.Context, user models.User) (models.User, error) {
			return models.User{}, store.ErrEmailAlreadyExists
		},
	}
	svc := newTestAuthService(users, &mockTokenRepository{}, &mockEmailSender{})

	_, err := svc.Register(ctx, models.User{Email: "john@example.com", Password: "pw", Name: "John"})
	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

func TestVerifyEmail_ConsumesToken(t *testing.T) {
	ctx := context.Background()

	var deletedTokenID string
	var verifiedUserID string

	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID string) (models.User, error) {
			return models.User{UserID: userID, Email: "john@example.com"}, nil
		},
		markVerifiedFn: func(ctx context.Context, userID string) error {
			verifiedUserID = userID
			return nil
		},
	}
	tokens := &mockTokenRepository{
		findFn: func(ctx context.Context, token string, purpose string) (models.Token, error) {
			require.Equal(t, models.TokenPurposeVerify, purpose)
			return models.Token{ID: "t-1", UserID: "u-1", Token: token, Purpose: purpose}, nil
		},
		deleteFn: func(ctx context.Context, tokenID string) error {
			deletedTokenID = tokenID
			return nil
		},
	}

	svc := newTestAuthService(users, tokens, &mockEmailSender{})

	user, err := svc.VerifyEmail(ctx, "raw-verify-token")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Equal(t, "u-1", verifiedUserID)
	assert.Equal(t, "t-1", deletedTokenID)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, &mockEmailSender{})

	_, err := svc.VerifyEmail(ctx, "already-used")
	assert.ErrorIs(t, err, store.ErrTokenNotFound)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()

	stored := models.User{UserID: "u-1", Email: "john@example.com", IsVerified: true}
	require.NoError(t, stored.SetPassword("secret-password"))

	var persistedPurposes []string
	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return stored, nil
		},
	}
	tokens := &mockTokenRepository{
		saveFn: func(ctx context.Context, token models.Token) (models.Token, error) {
			persistedPurposes = append(persistedPurposes, token.Purpose)
			return token, nil
		},
	}

	svc := newTestAuthService(users, tokens, &mockEmailSender{})

	user, pair, err := svc.Login(ctx, "john@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, []string{models.TokenPurposeAccess, models.TokenPurposeRefresh}, persistedPurposes)

	// purposes are baked into the signed claims
	accessClaims, err := utils.ValidateAndParseJWTToken(pair.AccessToken, testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, models.TokenPurposeAccess, accessClaims.Purpose)

	refreshClaims, err := utils.ValidateAndParseJWTToken(pair.RefreshToken, testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, models.TokenPurposeRefresh, refreshClaims.Purpose)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()

	stored := models.User{UserID: "u-1", Email: "john@example.com", IsVerified: true}
	require.NoError(t, stored.SetPassword("secret-password"))

	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return stored, nil
		},
	}

	svc := newTestAuthService(users, &mockTokenRepository{}, &mockEmailSender{})

	_, _, err := svc.Login(ctx, "john@example.com", "not-the-password")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_Unverified(t *testing.T) {
	ctx := context.Background()

	stored := models.User{UserID: "u-1", Email: "john@example.com", IsVerified: false}
	require.NoError(t, stored.SetPassword("secret-password"))

	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return stored, nil
		},
	}

	svc := newTestAuthService(users, &mockTokenRepository{}, &mockEmailSender{})

	_, _, err := svc.Login(ctx, "john@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrAccountNotVerified)
}

func TestRefreshAccessToken_NoPersistedRow(t *testing.T) {
	ctx := context.Background()

	// a perfectly valid signature without a row is a revoked token
	refreshToken, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeRefresh, time.Hour, testSignKey)
	require.NoError(t, err)

	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, &mockEmailSender{})

	_, err = svc.RefreshAccessToken(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	ctx := context.Background()

	refreshToken, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeRefresh, time.Hour, testSignKey)
	require.NoError(t, err)

	var persisted []models.Token
	tokens := &mockTokenRepository{
		findFn: func(ctx context.Context, token string, purpose string) (models.Token, error) {
			return models.Token{ID: "t-1", UserID: "u-1", Token: token, Purpose: purpose}, nil
		},
		saveFn: func(ctx context.Context, token models.Token) (models.Token, error) {
			persisted = append(persisted, token)
			return token, nil
		},
	}

	svc := newTestAuthService(&mockUserRepository{}, tokens, &mockEmailSender{})

	accessToken, err := svc.RefreshAccessToken(ctx, refreshToken)
	require.NoError(t, err)

	claims, err := utils.ValidateAndParseJWTToken(accessToken, testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, models.TokenPurposeAccess, claims.Purpose)
	assert.Equal(t, "u-1", claims.Subject)

	require.Len(t, persisted, 1)
	assert.Equal(t, models.TokenPurposeAccess, persisted[0].Purpose)
}

func TestRefreshAccessToken_WrongPurpose(t *testing.T) {
	ctx := context.Background()

	accessToken, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeAccess, time.Hour, testSignKey)
	require.NoError(t, err)

	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, &mockEmailSender{})

	_, err = svc.RefreshAccessToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateResetToken_PersistsDigestOnly(t *testing.T) {
	ctx := context.Background()

	var savedToken models.Token
	var emailedToken string

	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return models.User{UserID: "u-1", Email: email, Name: "John"}, nil
		},
	}
	tokens := &mockTokenRepository{
		saveFn: func(ctx context.Context, token models.Token) (models.Token, error) {
			savedToken = token
			return token, nil
		},
	}
	emails := &mockEmailSender{
		resetFn: func(ctx context.Context, to, name, token string) error {
			emailedToken = token
			return nil
		},
	}

	svc := newTestAuthService(users, tokens, emails)

	require.NoError(t, svc.GenerateResetToken(ctx, "john@example.com"))

	assert.Equal(t, models.TokenPurposeReset, savedToken.Purpose)
	assert.NotEmpty(t, emailedToken)
	assert.NotEqual(t, emailedToken, savedToken.Token)
	assert.Equal(t, utils.HashToken(emailedToken), savedToken.Token)
}

func TestResetPassword_Success(t *testing.T) {
	ctx := context.Background()

	raw := "raw-reset-token"
	digest := utils.HashToken(raw)

	var updatedHash string
	var deletedTokenID string
	var revokedPurpose string

	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID string) (models.User, error) {
			return models.User{UserID: userID, Email: "john@example.com"}, nil
		},
		updatePasswordFn: func(ctx context.Context, userID string, hashedPassword string) error {
			updatedHash = hashedPassword
			return nil
		},
	}
	tokens := &mockTokenRepository{
		findFn: func(ctx context.Context, token string, purpose string) (models.Token, error) {
			require.Equal(t, digest, token)
			require.Equal(t, models.TokenPurposeReset, purpose)
			return models.Token{ID: "t-1", UserID: "u-1", Token: token, Purpose: purpose}, nil
		},
		deleteFn: func(ctx context.Context, tokenID string) error {
			deletedTokenID = tokenID
			return nil
		},
		deleteUserFn: func(ctx context.Context, userID string, purpose string) error {
			revokedPurpose = purpose
			return nil
		},
	}

	svc := newTestAuthService(users, tokens, &mockEmailSender{})

	require.NoError(t, svc.ResetPassword(ctx, raw, "new-password"))

	assert.NotEmpty(t, updatedHash)
	assert.NotEqual(t, "new-password", updatedHash)
	assert.Equal(t, "t-1", deletedTokenID)
	assert.Equal(t, models.TokenPurposeRefresh, revokedPurpose)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, &mockEmailSender{})

	err := svc.ResetPassword(ctx, "already-used", "new-password")
	assert.ErrorIs(t, err, store.ErrTokenNotFound)
}

func TestAuthenticate_Expired(t *testing.T) {
	ctx := context.Background()

	expired, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeAccess, -time.Minute, testSignKey)
	require.NoError(t, err)

	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, &mockEmailSender{})

	_, err = svc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestAuthenticate_Success(t *testing.T) {
	ctx := context.Background()

	accessToken, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeAccess, time.Hour, testSignKey)
	require.NoError(t, err)

	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID string) (models.User, error) {
			return models.User{UserID: userID, Email: "john@example.com"}, nil
		},
	}

	svc := newTestAuthService(users, &mockTokenRepository{}, &mockEmailSender{})

	user, err := svc.Authenticate(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	ctx := context.Background()

	refreshToken, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeRefresh, time.Hour, testSignKey)
	require.NoError(t, err)

	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, &mockEmailSender{})

	_, err = svc.Authenticate(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshCredentials_RotatesPair(t *testing.T) {
	ctx := context.Background()

	refreshToken, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeRefresh, time.Hour, testSignKey)
	require.NoError(t, err)

	var revoked bool
	var persistedPurposes []string

	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID string) (models.User, error) {
			return models.User{UserID: userID, Email: "john@example.com"}, nil
		},
	}
	tokens := &mockTokenRepository{
		findFn: func(ctx context.Context, token string, purpose string) (models.Token, error) {
			return models.Token{ID: "t-1", UserID: "u-1", Token: token, Purpose: purpose}, nil
		},
		deleteUserFn: func(ctx context.Context, userID string, purpose string) error {
			if purpose == models.TokenPurposeRefresh {
				revoked = true
			}
			return nil
		},
		saveFn: func(ctx context.Context, token models.Token) (models.Token, error) {
			persistedPurposes = append(persistedPurposes, token.Purpose)
			return token, nil
		},
	}

	svc := newTestAuthService(users, tokens, &mockEmailSender{})

	user, pair, err := svc.RefreshCredentials(ctx, refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, revoked, "old refresh credential should be consumed")
	assert.Equal(t, []string{models.TokenPurposeAccess, models.TokenPurposeRefresh}, persistedPurposes)
}

func TestRefreshCredentials_RowUserMismatch(t *testing.T) {
	ctx := context.Background()

	refreshToken, err := utils.GenerateJWTToken(testIssuer, "u-1", models.TokenPurposeRefresh, time.Hour, testSignKey)
	require.NoError(t, err)

	tokens := &mockTokenRepository{
		findFn: func(ctx context.Context, token string, purpose string) (models.Token, error) {
			return models.Token{ID: "t-1", UserID: "someone-else", Token: token, Purpose: purpose}, nil
		},
	}

	svc := newTestAuthService(&mockUserRepository{}, tokens, &mockEmailSender{})

	_, _, err = svc.RefreshCredentials(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRegister_EmailSendFailure(t *testing.T) {
	ctx := context.Background()

	emails := &mockEmailSender{
		verificationFn: func(ctx context.Context, to, name, token string) error {
			return errors.New("smtp unreachable")
		},
	}

	svc := newTestAuthService(&mockUserRepository{}, &mockTokenRepository{}, emails)

	_, err := svc.Register(ctx, models.User{Email: "john@example.com", Password: "pw", Name: "John"})
	assert.Error(t, err)
}
