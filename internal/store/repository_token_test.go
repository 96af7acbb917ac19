package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

func newTestTokenRepo(t *testing.T) (*tokenRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &tokenRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

var tokenTestColumns = []string{"id", "user_id", "token", "purpose", "expires_at", "created_at"}

func TestSaveToken_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	token := models.Token{
		ID:        "t-1",
		UserID:    "u-1",
		Token:     "signed.jwt.value",
		Purpose:   models.TokenPurposeRefresh,
		ExpiresAt: now.Add(time.Hour),
	}

	rows := sqlmock.
		NewRows(tokenTestColumns).
		AddRow(token.ID, token.UserID, token.Token, token.Purpose, token.ExpiresAt, now)

	mock.ExpectQuery("INSERT INTO tokens").
		WithArgs(token.ID, token.UserID, token.Token, token.Purpose, token.ExpiresAt).
		WillReturnRows(rows)

	saved, err := repo.SaveToken(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != token.ID {
		t.Errorf("expected ID=%s, got %s", token.ID, saved.ID)
	}
	if saved.Purpose != models.TokenPurposeRefresh {
		t.Errorf("expected refresh purpose, got %s", saved.Purpose)
	}
}

func TestFindToken_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows(tokenTestColumns).
		AddRow("t-1", "u-1", "signed.jwt.value", models.TokenPurposeRefresh, now.Add(time.Hour), now)

	mock.ExpectQuery("SELECT (.+) FROM tokens").
		WithArgs("signed.jwt.value", models.TokenPurposeRefresh).
		WillReturnRows(rows)

	found, err := repo.FindToken(ctx, "signed.jwt.value", models.TokenPurposeRefresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != "u-1" {
		t.Errorf("expected UserID=u-1, got %s", found.UserID)
	}
}

func TestFindToken_NotFound(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM tokens").
		WithArgs("unknown", models.TokenPurposeReset).
		WillReturnRows(sqlmock.NewRows(tokenTestColumns))

	_, err := repo.FindToken(ctx, "unknown", models.TokenPurposeReset)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestDeleteUserTokens_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM tokens").
		WithArgs("u-1", models.TokenPurposeRefresh).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.DeleteUserTokens(ctx, "u-1", models.TokenPurposeRefresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteExpiredTokens_ReportsCount(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	ctx := context.Background()
	before := time.Now()

	mock.ExpectExec("DELETE FROM tokens").
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 7))

	swept, err := repo.DeleteExpiredTokens(ctx, before)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swept != 7 {
		t.Errorf("expected 7 swept rows, got %d", swept)
	}
}
