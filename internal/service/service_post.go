package service

import (
	"context"
	"fmt"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// postService implements PostService. Posts are editorial content without
// an individual owner, so writes are gated on the editor and admin roles.
type postService struct {
	postRepository store.PostRepository
	logger         *logger.Logger
}

// NewPostService constructs a PostService over the given repository.
func NewPostService(postRepository store.PostRepository, logger *logger.Logger) PostService {
	return &postService{
		postRepository: postRepository,
		logger:         logger,
	}
}

func canEditContent(actor models.User) bool {
	return actor.Role == models.RoleAdmin || actor.Role == models.RoleEditor
}

// CreatePost persists a new post. Editors and admins only.
func (p *postService) CreatePost(ctx context.Context, actor models.User, post models.Post) (models.Post, error) {
	log := logger.FromContext(ctx)

	if !canEditContent(actor) {
		log.Error().Str("actor", actor.UserID).Msg("post create denied")
		return models.Post{}, ErrNotAllowed
	}
	if post.Title == "" {
		return models.Post{}, ErrInvalidDataProvided
	}

	post.ID = utils.NewID()
	if post.Slug == "" {
		post.Slug = slugify(post.Title)
	}

	saved, err := p.postRepository.CreatePost(ctx, post)
	if err != nil {
		log.Err(err).Msg("post creation ended with error")
		return models.Post{}, fmt.Errorf("post creation ended with error: %w", err)
	}

	return saved, nil
}

// GetPost retrieves a post by id.
func (p *postService) GetPost(ctx context.Context, id string) (models.Post, error) {
	post, err := p.postRepository.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, fmt.Errorf("post lookup failed: %w", err)
	}
	return post, nil
}

// ListPosts retrieves a page of posts plus the total post count.
func (p *postService) ListPosts(ctx context.Context, opts store.ListOptions) ([]models.Post, int, error) {
	posts, err := p.postRepository.ListPosts(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("post listing failed: %w", err)
	}

	total, err := p.postRepository.CountPosts(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("post counting failed: %w", err)
	}

	return posts, total, nil
}

// UpdatePost replaces a post's content. Editors and admins only.
func (p *postService) UpdatePost(ctx context.Context, actor models.User, post models.Post) (models.Post, error) {
	log := logger.FromContext(ctx)

	if !canEditContent(actor) {
		log.Error().Str("postID", post.ID).Str("actor", actor.UserID).Msg("post update denied")
		return models.Post{}, ErrNotAllowed
	}

	updated, err := p.postRepository.UpdatePost(ctx, post)
	if err != nil {
		log.Err(err).Str("postID", post.ID).Msg("post update ended with error")
		return models.Post{}, fmt.Errorf("post update ended with error: %w", err)
	}

	return updated, nil
}

// DeletePost removes a post. Editors and admins only.
func (p *postService) DeletePost(ctx context.Context, actor models.User, id string) error {
	log := logger.FromContext(ctx)

	if !canEditContent(actor) {
		log.Error().Str("postID", id).Str("actor", actor.UserID).Msg("post delete denied")
		return ErrNotAllowed
	}

	if err := p.postRepository.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("post delete ended with error: %w", err)
	}

	return nil
}
