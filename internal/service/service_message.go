package service

import (
	"context"
	"fmt"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// messageService implements MessageService. It fronts the duplicate gate on
// the message natural key: a cheap existence pre-check, with the unique
// index in the messages table backstopping the check-then-insert race.
type messageService struct {
	messageRepository store.MessageRepository
	logger            *logger.Logger
}

// NewMessageService constructs a MessageService over the given repository.
func NewMessageService(messageRepository store.MessageRepository, logger *logger.Logger) MessageService {
	return &messageService{
		messageRepository: messageRepository,
		logger:            logger,
	}
}

// CreateMessage persists a chat line. A message whose (text, sender,
// discussion, timestamp) tuple is already stored is rejected with
// store.ErrDuplicateMessage; the first write wins.
func (m *messageService) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	log := logger.FromContext(ctx)

	if message.Text == "" || message.Sender == "" || message.DiscussionID == "" || message.Timestamp.IsZero() {
		return models.Message{}, ErrInvalidDataProvided
	}

	exists, err := m.messageRepository.MessageExists(ctx, message)
	if err != nil {
		log.Err(err).Msg("duplicate pre-check failed")
		return models.Message{}, fmt.Errorf("duplicate pre-check failed: %w", err)
	}
	if exists {
		return models.Message{}, store.ErrDuplicateMessage
	}

	message.ID = utils.NewID()

	saved, err := m.messageRepository.CreateMessage(ctx, message)
	if err != nil {
		log.Err(err).Str("discussionID", message.DiscussionID).Msg("message creation ended with error")
		return models.Message{}, fmt.Errorf("message creation ended with error: %w", err)
	}

	return saved, nil
}

// ListByDiscussion retrieves a discussion's chat history in chronological
// order.
func (m *messageService) ListByDiscussion(ctx context.Context, discussionID string) ([]models.Message, error) {
	if discussionID == "" {
		return nil, ErrInvalidDataProvided
	}

	messages, err := m.messageRepository.ListMessagesByDiscussion(ctx, discussionID)
	if err != nil {
		return nil, fmt.Errorf("message listing failed: %w", err)
	}

	return messages, nil
}

// DeleteMessage removes a message. Only its sender or an admin may delete
// it.
func (m *messageService) DeleteMessage(ctx context.Context, actor models.User, id string) error {
	log := logger.FromContext(ctx)

	existing, err := m.messageRepository.GetMessage(ctx, id)
	if err != nil {
		return fmt.Errorf("message lookup failed: %w", err)
	}

	if existing.Sender != actor.UserID && !actor.IsAdmin() {
		log.Error().Str("messageID", id).Str("actor", actor.UserID).Msg("message delete denied")
		return ErrNotAllowed
	}

	if err := m.messageRepository.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("message delete ended with error: %w", err)
	}

	return nil
}
