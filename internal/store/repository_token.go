package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

// tokenRepository is the PostgreSQL-backed implementation of
// [TokenRepository]. One row per issued credential; deleting the row revokes
// the credential regardless of its signature's own expiry.
type tokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTokenRepository constructs a [TokenRepository] backed by the provided
// database connection and logger.
func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	logger.Debug().Msg("creating token repository")
	return &tokenRepository{
		db:     db,
		logger: logger,
	}
}

// SaveToken persists an issued credential record and returns it with
// server-assigned fields.
func (r *tokenRepository) SaveToken(ctx context.Context, token models.Token) (models.Token, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, saveToken,
		token.ID, token.UserID, token.Token, token.Purpose, token.ExpiresAt)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tokenRepository.SaveToken").Msg("error: row is nil")
		return models.Token{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var saved models.Token
	if err := row.Scan(&saved.ID, &saved.UserID, &saved.Token, &saved.Purpose, &saved.ExpiresAt, &saved.CreatedAt); err != nil {
		log.Err(err).Str("func", "*tokenRepository.SaveToken").Msg("error: scanning error")
		return models.Token{}, err
	}

	return saved, nil
}

// FindToken retrieves the unexpired token row matching the (token, purpose)
// pair. Expired rows are filtered in SQL, so a consumed or aged-out token is
// indistinguishable from one that never existed.
//
// Error handling:
//   - No matching row → [ErrTokenNotFound].
func (r *tokenRepository) FindToken(ctx context.Context, token string, purpose string) (models.Token, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findToken, token, purpose)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tokenRepository.FindToken").Msg("error: row is nil")
		return models.Token{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var found models.Token
	if err := row.Scan(&found.ID, &found.UserID, &found.Token, &found.Purpose, &found.ExpiresAt, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Token{}, ErrTokenNotFound
		}
		log.Err(err).Str("func", "*tokenRepository.FindToken").Msg("error: scanning error")
		return models.Token{}, err
	}

	return found, nil
}

// DeleteToken removes a single token row by id, revoking the credential.
func (r *tokenRepository) DeleteToken(ctx context.Context, tokenID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteToken, tokenID); err != nil {
		log.Err(err).Str("func", "*tokenRepository.DeleteToken").Msg("error: executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteUserTokens removes every token of the given purpose held by a user.
// Used to enforce single-active-token semantics on issue and to revoke all
// sessions on password reset.
func (r *tokenRepository) DeleteUserTokens(ctx context.Context, userID string, purpose string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteUserTokens, userID, purpose); err != nil {
		log.Err(err).Str("func", "*tokenRepository.DeleteUserTokens").Msg("error: executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteExpiredTokens removes every token row whose expiry precedes the
// given instant and reports how many rows were swept.
func (r *tokenRepository) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredTokens, before)
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.DeleteExpiredTokens").Msg("error: executing delete")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected, nil
}
