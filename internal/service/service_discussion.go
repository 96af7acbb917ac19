package service

import (
	"context"
	"fmt"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// discussionService implements DiscussionService. The creating user becomes
// the host; the discussion id doubles as its chat room id.
type discussionService struct {
	discussionRepository store.DiscussionRepository
	logger               *logger.Logger
}

// NewDiscussionService constructs a DiscussionService over the given
// repository.
func NewDiscussionService(discussionRepository store.DiscussionRepository, logger *logger.Logger) DiscussionService {
	return &discussionService{
		discussionRepository: discussionRepository,
		logger:               logger,
	}
}

// CreateDiscussion persists a new discussion or event hosted by actor.
func (d *discussionService) CreateDiscussion(ctx context.Context, actor models.User, discussion models.Discussion) (models.Discussion, error) {
	log := logger.FromContext(ctx)

	if discussion.Topic == "" || discussion.Content == "" {
		return models.Discussion{}, ErrInvalidDataProvided
	}
	if discussion.Type == "" {
		discussion.Type = models.DiscussionTypeDiscussion
	}
	if discussion.Type != models.DiscussionTypeDiscussion && discussion.Type != models.DiscussionTypeEvent {
		return models.Discussion{}, ErrInvalidDataProvided
	}

	discussion.ID = utils.NewID()
	discussion.Host = actor.UserID
	discussion.RoomID = discussion.ID

	saved, err := d.discussionRepository.CreateDiscussion(ctx, discussion)
	if err != nil {
		log.Err(err).Msg("discussion creation ended with error")
		return models.Discussion{}, fmt.Errorf("discussion creation ended with error: %w", err)
	}

	return saved, nil
}

// GetDiscussion retrieves a discussion by id.
func (d *discussionService) GetDiscussion(ctx context.Context, id string) (models.Discussion, error) {
	discussion, err := d.discussionRepository.GetDiscussion(ctx, id)
	if err != nil {
		return models.Discussion{}, fmt.Errorf("discussion lookup failed: %w", err)
	}
	return discussion, nil
}

// ListDiscussions retrieves a page of discussions plus the total count.
func (d *discussionService) ListDiscussions(ctx context.Context, opts store.ListOptions) ([]models.Discussion, int, error) {
	discussions, err := d.discussionRepository.ListDiscussions(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("discussion listing failed: %w", err)
	}

	total, err := d.discussionRepository.CountDiscussions(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("discussion counting failed: %w", err)
	}

	return discussions, total, nil
}

// UpdateDiscussion replaces a discussion's content. Only the host or an
// admin may update it; host and room id are preserved.
func (d *discussionService) UpdateDiscussion(ctx context.Context, actor models.User, discussion models.Discussion) (models.Discussion, error) {
	log := logger.FromContext(ctx)

	existing, err := d.discussionRepository.GetDiscussion(ctx, discussion.ID)
	if err != nil {
		return models.Discussion{}, fmt.Errorf("discussion lookup failed: %w", err)
	}

	if existing.Host != actor.UserID && !actor.IsAdmin() {
		log.Error().Str("discussionID", discussion.ID).Str("actor", actor.UserID).Msg("discussion update denied")
		return models.Discussion{}, ErrNotAllowed
	}

	discussion.Host = existing.Host
	discussion.RoomID = existing.RoomID
	if discussion.Type == "" {
		discussion.Type = existing.Type
	}

	updated, err := d.discussionRepository.UpdateDiscussion(ctx, discussion)
	if err != nil {
		log.Err(err).Str("discussionID", discussion.ID).Msg("discussion update ended with error")
		return models.Discussion{}, fmt.Errorf("discussion update ended with error: %w", err)
	}

	return updated, nil
}

// DeleteDiscussion removes a discussion and, via the schema cascade, its
// chat history. Only the host or an admin may delete it.
func (d *discussionService) DeleteDiscussion(ctx context.Context, actor models.User, id string) error {
	log := logger.FromContext(ctx)

	existing, err := d.discussionRepository.GetDiscussion(ctx, id)
	if err != nil {
		return fmt.Errorf("discussion lookup failed: %w", err)
	}

	if existing.Host != actor.UserID && !actor.IsAdmin() {
		log.Error().Str("discussionID", id).Str("actor", actor.UserID).Msg("discussion delete denied")
		return ErrNotAllowed
	}

	if err := d.discussionRepository.DeleteDiscussion(ctx, id); err != nil {
		return fmt.Errorf("discussion delete ended with error: %w", err)
	}

	return nil
}
