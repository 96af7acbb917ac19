package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/models"
)

// ─────────────────────────────────────────────
// Mock: store.MessageRepository
// ─────────────────────────────────────────────

type mockMessageRepository struct {
	createFn func(ctx context.Context, message models.Message) (models.Message, error)
	getFn    func(ctx context.Context, id string) (models.Message, error)
	existsFn func(ctx context.Context, message models.Message) (bool, error)
	listFn   func(ctx context.Context, discussionID string) ([]models.Message, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockMessageRepository) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	if m.createFn != nil {
		return m.createFn(ctx, message)
	}
	return message, nil
}

func (m *mockMessageRepository) GetMessage(ctx context.Context, id string) (models.Message, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return models.Message{}, store.ErrNotFound
}

func (m *mockMessageRepository) MessageExists(ctx context.Context, message models.Message) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, message)
	}
	return false, nil
}

func (m *mockMessageRepository) ListMessagesByDiscussion(ctx context.Context, discussionID string) ([]models.Message, error) {
	if m.listFn != nil {
		return m.listFn(ctx, discussionID)
	}
	return nil, nil
}

func (m *mockMessageRepository) DeleteMessage(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

func testMessage() models.Message {
	return models.Message{
		Text:         "hello",
		Sender:       "u-1",
		SenderShow:   "John",
		DiscussionID: "d-1",
		Timestamp:    time.Now().Truncate(time.Millisecond),
	}
}

func TestCreateMessage_AssignsID(t *testing.T) {
	ctx := context.Background()

	repo := &mockMessageRepository{}
	svc := NewMessageService(repo, logger.Nop())

	saved, err := svc.CreateMessage(ctx, testMessage())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "hello", saved.Text)
}

func TestCreateMessage_DuplicateTupleRejected(t *testing.T) {
	ctx := context.Background()

	var inserted bool
	repo := &mockMessageRepository{
		existsFn: func(ctx context.Context, message models.Message) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, message models.Message) (models.Message, error) {
			inserted = true
			return message, nil
		},
	}
	svc := NewMessageService(repo, logger.Nop())

	_, err := svc.CreateMessage(ctx, testMessage())
	assert.ErrorIs(t, err, store.ErrDuplicateMessage)
	assert.False(t, inserted, "duplicate must not reach the insert")
}

func TestCreateMessage_RaceLosesToIndex(t *testing.T) {
	ctx := context.Background()

	// pre-check passes but a concurrent writer won the insert
	repo := &mockMessageRepository{
		createFn: func(ctx context.Context, message models.Message) (models.Message, error) {
			return models.Message{}, store.ErrDuplicateMessage
		},
	}
	svc := NewMessageService(repo, logger.Nop())

	_, err := svc.CreateMessage(ctx, testMessage())
	assert.ErrorIs(t, err, store.ErrDuplicateMessage)
}

func TestCreateMessage_InvalidData(t *testing.T) {
	ctx := context.Background()
	svc := NewMessageService(&mockMessageRepository{}, logger.Nop())

	_, err := svc.CreateMessage(ctx, models.Message{Text: "hello"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestDeleteMessage_SenderOnly(t *testing.T) {
	ctx := context.Background()

	repo := &mockMessageRepository{
		getFn: func(ctx context.Context, id string) (models.Message, error) {
			return models.Message{ID: id, Sender: "u-1"}, nil
		},
	}
	svc := NewMessageService(repo, logger.Nop())

	err := svc.DeleteMessage(ctx, models.User{UserID: "u-2", Role: models.RoleUser}, "m-1")
	assert.ErrorIs(t, err, ErrNotAllowed)

	err = svc.DeleteMessage(ctx, models.User{UserID: "u-1", Role: models.RoleUser}, "m-1")
	assert.NoError(t, err)

	err = svc.DeleteMessage(ctx, models.User{UserID: "u-3", Role: models.RoleAdmin}, "m-1")
	assert.NoError(t, err)
}
