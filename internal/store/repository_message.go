package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

// messageRepository is the PostgreSQL-backed implementation of
// [MessageRepository]. The unique index on (text, sender, discussion_id,
// timestamp) is the authoritative duplicate gate; MessageExists is the
// cheap pre-check relay paths run before inserting.
type messageRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewMessageRepository constructs a [MessageRepository] backed by the
// provided database connection and logger.
func NewMessageRepository(db *DB, logger *logger.Logger) MessageRepository {
	logger.Debug().Msg("creating message repository")
	return &messageRepository{
		db:     db,
		logger: logger,
	}
}

// CreateMessage persists a chat message.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) on the natural key →
//     [ErrDuplicateMessage].
func (r *messageRepository) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createMessage,
		message.ID, message.Text, message.Sender, message.SenderShow, message.DiscussionID, message.Timestamp)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*messageRepository.CreateMessage").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Message{}, ErrDuplicateMessage
		default:
			return models.Message{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	var saved models.Message
	if err := row.Scan(&saved.ID, &saved.Text, &saved.Sender, &saved.SenderShow, &saved.DiscussionID, &saved.Timestamp); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Message{}, ErrDuplicateMessage
		}
		log.Err(err).Str("func", "*messageRepository.CreateMessage").Msg("error: scanning error")
		return models.Message{}, err
	}

	return saved, nil
}

// GetMessage retrieves a message by id. Returns [ErrNotFound] when no
// message matches.
func (r *messageRepository) GetMessage(ctx context.Context, id string) (models.Message, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getMessage, id)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*messageRepository.GetMessage").Msg("error: row is nil")
		return models.Message{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var found models.Message
	if err := row.Scan(&found.ID, &found.Text, &found.Sender, &found.SenderShow, &found.DiscussionID, &found.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Message{}, ErrNotFound
		}
		log.Err(err).Str("func", "*messageRepository.GetMessage").Msg("error: scanning error")
		return models.Message{}, err
	}

	return found, nil
}

// MessageExists reports whether a message with the same (text, sender,
// discussion, timestamp) natural key is already stored.
func (r *messageRepository) MessageExists(ctx context.Context, message models.Message) (bool, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, messageExists,
		message.Text, message.Sender, message.DiscussionID, message.Timestamp)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*messageRepository.MessageExists").Msg("error: row is nil")
		return false, fmt.Errorf("unexpected DB error: %w", err)
	}

	var exists bool
	if err := row.Scan(&exists); err != nil {
		log.Err(err).Str("func", "*messageRepository.MessageExists").Msg("error: scanning error")
		return false, err
	}

	return exists, nil
}

// ListMessagesByDiscussion retrieves a discussion's full chat history in
// chronological order.
func (r *messageRepository) ListMessagesByDiscussion(ctx context.Context, discussionID string) ([]models.Message, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listMessagesByDiscussion, discussionID)
	if err != nil {
		log.Err(err).Str("func", "*messageRepository.ListMessagesByDiscussion").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(&message.ID, &message.Text, &message.Sender, &message.SenderShow,
			&message.DiscussionID, &message.Timestamp); err != nil {
			log.Err(err).Str("func", "*messageRepository.ListMessagesByDiscussion").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return messages, nil
}

// DeleteMessage removes a message by id. Returns [ErrNotFound] when no row
// was deleted.
func (r *messageRepository) DeleteMessage(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteMessage, id)
	if err != nil {
		log.Err(err).Str("func", "*messageRepository.DeleteMessage").Msg("error: executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
