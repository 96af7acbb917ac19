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

var discussionColumns = []string{
	"id", "topic", "content", "host", "start_date", "end_date", "start_time",
	"type", "emoji", "room_id", "photos", "created_at",
}

var discussionSortColumns = map[string]struct{}{
	"created_at": {},
	"start_date": {},
	"topic":      {},
}

// discussionRepository is the PostgreSQL-backed implementation of
// [DiscussionRepository].
type discussionRepository struct {
	logger *logger.Logger
	db     *DB
	sq     sq.StatementBuilderType
}

// NewDiscussionRepository constructs a [DiscussionRepository] backed by the
// provided database connection and logger.
func NewDiscussionRepository(db *DB, logger *logger.Logger) DiscussionRepository {
	logger.Debug().Msg("creating discussion repository")
	return &discussionRepository{
		db:     db,
		logger: logger,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateDiscussion persists a new discussion or event and returns it with
// server-assigned timestamps.
func (r *discussionRepository) CreateDiscussion(ctx context.Context, discussion models.Discussion) (models.Discussion, error) {
	log := logger.FromContext(ctx)

	photos, err := jsonbValue(discussion.Photos)
	if err != nil {
		return models.Discussion{}, err
	}

	query, args, err := r.sq.Insert(discussion.TableName()).
		Columns("id", "topic", "content", "host", "start_date", "end_date",
			"start_time", "type", "emoji", "room_id", "photos").
		Values(discussion.ID, discussion.Topic, discussion.Content, discussion.Host,
			discussion.StartDate, discussion.EndDate, discussion.StartTime,
			discussion.Type, discussion.Emoji, discussion.RoomID, photos).
		Suffix("RETURNING " + joinColumns(discussionColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.CreateDiscussion").Msg("error: building insert")
		return models.Discussion{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	saved, err := scanDiscussion(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.CreateDiscussion").Msg("error: scanning error")
		return models.Discussion{}, err
	}

	return saved, nil
}

// GetDiscussion retrieves a discussion by id. Returns [ErrNotFound] when no
// discussion matches.
func (r *discussionRepository) GetDiscussion(ctx context.Context, id string) (models.Discussion, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Select(discussionColumns...).
		From(models.Discussion{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.GetDiscussion").Msg("error: building select")
		return models.Discussion{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	discussion, err := scanDiscussion(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Discussion{}, ErrNotFound
		}
		log.Err(err).Str("func", "*discussionRepository.GetDiscussion").Msg("error: scanning error")
		return models.Discussion{}, err
	}

	return discussion, nil
}

// ListDiscussions retrieves a page of discussions ordered per opts.
func (r *discussionRepository) ListDiscussions(ctx context.Context, opts ListOptions) ([]models.Discussion, error) {
	log := logger.FromContext(ctx)

	builder := r.sq.Select(discussionColumns...).
		From(models.Discussion{}.TableName()).
		OrderBy(orderClause(opts, discussionSortColumns, "created_at"))
	builder = paginate(builder, opts)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.ListDiscussions").Msg("error: building select")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.ListDiscussions").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var discussions []models.Discussion
	for rows.Next() {
		discussion, err := scanDiscussion(rows)
		if err != nil {
			log.Err(err).Str("func", "*discussionRepository.ListDiscussions").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		discussions = append(discussions, discussion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return discussions, nil
}

// CountDiscussions reports the total number of discussions.
func (r *discussionRepository) CountDiscussions(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, models.Discussion{}.TableName(), "*discussionRepository.CountDiscussions")
}

// UpdateDiscussion replaces the mutable fields of a discussion and returns
// the updated record. Returns [ErrNotFound] when the discussion does not
// exist.
func (r *discussionRepository) UpdateDiscussion(ctx context.Context, discussion models.Discussion) (models.Discussion, error) {
	log := logger.FromContext(ctx)

	photos, err := jsonbValue(discussion.Photos)
	if err != nil {
		return models.Discussion{}, err
	}

	query, args, err := r.sq.Update(discussion.TableName()).
		Set("topic", discussion.Topic).
		Set("content", discussion.Content).
		Set("start_date", discussion.StartDate).
		Set("end_date", discussion.EndDate).
		Set("start_time", discussion.StartTime).
		Set("type", discussion.Type).
		Set("emoji", discussion.Emoji).
		Set("room_id", discussion.RoomID).
		Set("photos", photos).
		Where(sq.Eq{"id": discussion.ID}).
		Suffix("RETURNING " + joinColumns(discussionColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.UpdateDiscussion").Msg("error: building update")
		return models.Discussion{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanDiscussion(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Discussion{}, ErrNotFound
		}
		log.Err(err).Str("func", "*discussionRepository.UpdateDiscussion").Msg("error: scanning error")
		return models.Discussion{}, err
	}

	return updated, nil
}

// DeleteDiscussion removes a discussion by id. The messages table cascades,
// so the discussion's chat history goes with it. Returns [ErrNotFound] when
// no row was deleted.
func (r *discussionRepository) DeleteDiscussion(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Delete(models.Discussion{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.DeleteDiscussion").Msg("error: building delete")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*discussionRepository.DeleteDiscussion").Msg("error: executing delete")
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

func scanDiscussion(row interface{ Scan(...any) error }) (models.Discussion, error) {
	var discussion models.Discussion
	var photos []byte

	if err := row.Scan(&discussion.ID, &discussion.Topic, &discussion.Content, &discussion.Host,
		&discussion.StartDate, &discussion.EndDate, &discussion.StartTime, &discussion.Type,
		&discussion.Emoji, &discussion.RoomID, &photos, &discussion.CreatedAt); err != nil {
		return models.Discussion{}, err
	}

	if err := scanJSONB(photos, &discussion.Photos); err != nil {
		return models.Discussion{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return discussion, nil
}
