package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

var postColumns = []string{
	"id", "title", "content", "categories", "member_only", "is_featured",
	"photos", "slug", "created_at", "updated_at",
}

var postSortColumns = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"title":      {},
}

// postRepository is the PostgreSQL-backed implementation of [PostRepository].
type postRepository struct {
	logger *logger.Logger
	db     *DB
	sq     sq.StatementBuilderType
}

// NewPostRepository constructs a [PostRepository] backed by the provided
// database connection and logger.
func NewPostRepository(db *DB, logger *logger.Logger) PostRepository {
	logger.Debug().Msg("creating post repository")
	return &postRepository{
		db:     db,
		logger: logger,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreatePost persists a new post and returns it with server-assigned
// timestamps.
func (r *postRepository) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	log := logger.FromContext(ctx)

	categories, err := jsonbValue(post.Categories)
	if err != nil {
		return models.Post{}, err
	}
	photos, err := jsonbValue(post.Photos)
	if err != nil {
		return models.Post{}, err
	}

	query, args, err := r.sq.Insert(post.TableName()).
		Columns("id", "title", "content", "categories", "member_only", "is_featured", "photos", "slug").
		Values(post.ID, post.Title, post.Content, categories, post.MemberOnly, post.IsFeatured, photos, post.Slug).
		Suffix("RETURNING " + joinColumns(postColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*postRepository.CreatePost").Msg("error: building insert")
		return models.Post{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	saved, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*postRepository.CreatePost").Msg("error: scanning error")
		return models.Post{}, err
	}

	return saved, nil
}

// GetPost retrieves a post by id. Returns [ErrNotFound] when no post matches.
func (r *postRepository) GetPost(ctx context.Context, id string) (models.Post, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Select(postColumns...).
		From(models.Post{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*postRepository.GetPost").Msg("error: building select")
		return models.Post{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	post, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, ErrNotFound
		}
		log.Err(err).Str("func", "*postRepository.GetPost").Msg("error: scanning error")
		return models.Post{}, err
	}

	return post, nil
}

// ListPosts retrieves a page of posts ordered per opts.
func (r *postRepository) ListPosts(ctx context.Context, opts ListOptions) ([]models.Post, error) {
	log := logger.FromContext(ctx)

	builder := r.sq.Select(postColumns...).
		From(models.Post{}.TableName()).
		OrderBy(orderClause(opts, postSortColumns, "created_at"))
	builder = paginate(builder, opts)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*postRepository.ListPosts").Msg("error: building select")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*postRepository.ListPosts").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			log.Err(err).Str("func", "*postRepository.ListPosts").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return posts, nil
}

// CountPosts reports the total number of posts.
func (r *postRepository) CountPosts(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, models.Post{}.TableName(), "*postRepository.CountPosts")
}

// UpdatePost replaces the mutable fields of a post and returns the updated
// record. Returns [ErrNotFound] when the post does not exist.
func (r *postRepository) UpdatePost(ctx context.Context, post models.Post) (models.Post, error) {
	log := logger.FromContext(ctx)

	categories, err := jsonbValue(post.Categories)
	if err != nil {
		return models.Post{}, err
	}
	photos, err := jsonbValue(post.Photos)
	if err != nil {
		return models.Post{}, err
	}

	query, args, err := r.sq.Update(post.TableName()).
		Set("title", post.Title).
		Set("content", post.Content).
		Set("categories", categories).
		Set("member_only", post.MemberOnly).
		Set("is_featured", post.IsFeatured).
		Set("photos", photos).
		Set("slug", post.Slug).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": post.ID}).
		Suffix("RETURNING " + joinColumns(postColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*postRepository.UpdatePost").Msg("error: building update")
		return models.Post{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, ErrNotFound
		}
		log.Err(err).Str("func", "*postRepository.UpdatePost").Msg("error: scanning error")
		return models.Post{}, err
	}

	return updated, nil
}

// DeletePost removes a post by id. Returns [ErrNotFound] when no row was
// deleted.
func (r *postRepository) DeletePost(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Delete(models.Post{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*postRepository.DeletePost").Msg("error: building delete")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*postRepository.DeletePost").Msg("error: executing delete")
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

func scanPost(row interface{ Scan(...any) error }) (models.Post, error) {
	var post models.Post
	var categories, photos []byte

	if err := row.Scan(&post.ID, &post.Title, &post.Content, &categories, &post.MemberOnly,
		&post.IsFeatured, &photos, &post.Slug, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return models.Post{}, err
	}

	if err := scanJSONB(categories, &post.Categories); err != nil {
		return models.Post{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if err := scanJSONB(photos, &post.Photos); err != nil {
		return models.Post{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return post, nil
}
