package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

var courseColumns = []string{
	"id", "title", "slug", "promotion_url", "categories", "description",
	"learning_outcomes", "duration", "photos", "price", "is_featured",
	"is_approved", "disapproval_reason", "learning_modes", "videos", "tutor",
	"created_at", "updated_at",
}

// Listing sort columns accepted from the outside. Anything else falls back
// to created_at.
var courseSortColumns = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"title":      {},
	"price":      {},
	"duration":   {},
}

// courseRepository is the PostgreSQL-backed implementation of
// [CourseRepository]. Queries are built with squirrel using $n placeholders;
// the slice-valued fields live in jsonb columns.
type courseRepository struct {
	logger *logger.Logger
	db     *DB
	sq     sq.StatementBuilderType
}

// NewCourseRepository constructs a [CourseRepository] backed by the provided
// database connection and logger.
func NewCourseRepository(db *DB, logger *logger.Logger) CourseRepository {
	logger.Debug().Msg("creating course repository")
	return &courseRepository{
		db:     db,
		logger: logger,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateCourse persists a new course and returns it with server-assigned
// timestamps.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) on the slug column →
//     [ErrSlugAlreadyExists]; the caller retries with a suffixed slug.
func (r *courseRepository) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	log := logger.FromContext(ctx)

	categories, photos, learningModes, err := marshalStringSlices(course.Categories, course.Photos, course.LearningModes)
	if err != nil {
		return models.Course{}, err
	}
	videos, err := jsonbValue(course.Videos)
	if err != nil {
		return models.Course{}, err
	}

	query, args, err := r.sq.Insert(course.TableName()).
		Columns("id", "title", "slug", "promotion_url", "categories", "description",
			"learning_outcomes", "duration", "photos", "price", "is_featured",
			"is_approved", "disapproval_reason", "learning_modes", "videos", "tutor").
		Values(course.ID, course.Title, course.Slug, course.PromotionURL, categories, course.Description,
			course.LearningOutcomes, course.Duration, photos, course.Price, course.IsFeatured,
			course.IsApproved, course.DisapprovalReason, learningModes, videos, course.Tutor).
		Suffix("RETURNING " + joinColumns(courseColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*courseRepository.CreateCourse").Msg("error: building insert")
		return models.Course{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	saved, err := scanCourse(row)
	if err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Course{}, ErrSlugAlreadyExists
		}
		log.Err(err).Str("func", "*courseRepository.CreateCourse").Msg("error: scanning error")
		return models.Course{}, err
	}

	return saved, nil
}

// GetCourse retrieves a course by id. Returns [ErrNotFound] when no course
// matches.
func (r *courseRepository) GetCourse(ctx context.Context, id string) (models.Course, error) {
	return r.getCourseBy(ctx, sq.Eq{"id": id}, "*courseRepository.GetCourse")
}

// GetCourseBySlug retrieves a course by its unique slug. Returns
// [ErrNotFound] when no course matches.
func (r *courseRepository) GetCourseBySlug(ctx context.Context, slug string) (models.Course, error) {
	return r.getCourseBy(ctx, sq.Eq{"slug": slug}, "*courseRepository.GetCourseBySlug")
}

func (r *courseRepository) getCourseBy(ctx context.Context, where sq.Eq, caller string) (models.Course, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Select(courseColumns...).
		From(models.Course{}.TableName()).
		Where(where).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error: building select")
		return models.Course{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Course{}, ErrNotFound
		}
		log.Err(err).Str("func", caller).Msg("error: scanning error")
		return models.Course{}, err
	}

	return course, nil
}

// ListCourses retrieves a page of courses ordered per opts.
func (r *courseRepository) ListCourses(ctx context.Context, opts ListOptions) ([]models.Course, error) {
	log := logger.FromContext(ctx)

	builder := r.sq.Select(courseColumns...).
		From(models.Course{}.TableName()).
		OrderBy(orderClause(opts, courseSortColumns, "created_at"))
	builder = paginate(builder, opts)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*courseRepository.ListCourses").Msg("error: building select")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*courseRepository.ListCourses").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			log.Err(err).Str("func", "*courseRepository.ListCourses").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return courses, nil
}

// CountCourses reports the total number of courses.
func (r *courseRepository) CountCourses(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, models.Course{}.TableName(), "*courseRepository.CountCourses")
}

// ListCourseCategories returns the distinct category labels used across all
// courses, unnested from the jsonb categories column.
func (r *courseRepository) ListCourseCategories(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listCourseCategories)
	if err != nil {
		log.Err(err).Str("func", "*courseRepository.ListCourseCategories").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			log.Err(err).Str("func", "*courseRepository.ListCourseCategories").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return categories, nil
}

// UpdateCourse replaces the mutable fields of a course and returns the
// updated record. Returns [ErrNotFound] when the course does not exist and
// [ErrSlugAlreadyExists] when the new slug collides.
func (r *courseRepository) UpdateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	log := logger.FromContext(ctx)

	categories, photos, learningModes, err := marshalStringSlices(course.Categories, course.Photos, course.LearningModes)
	if err != nil {
		return models.Course{}, err
	}
	videos, err := jsonbValue(course.Videos)
	if err != nil {
		return models.Course{}, err
	}

	query, args, err := r.sq.Update(course.TableName()).
		Set("title", course.Title).
		Set("slug", course.Slug).
		Set("promotion_url", course.PromotionURL).
		Set("categories", categories).
		Set("description", course.Description).
		Set("learning_outcomes", course.LearningOutcomes).
		Set("duration", course.Duration).
		Set("photos", photos).
		Set("price", course.Price).
		Set("is_featured", course.IsFeatured).
		Set("is_approved", course.IsApproved).
		Set("disapproval_reason", course.DisapprovalReason).
		Set("learning_modes", learningModes).
		Set("videos", videos).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": course.ID}).
		Suffix("RETURNING " + joinColumns(courseColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*courseRepository.UpdateCourse").Msg("error: building update")
		return models.Course{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanCourse(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Course{}, ErrNotFound
		}
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Course{}, ErrSlugAlreadyExists
		}
		log.Err(err).Str("func", "*courseRepository.UpdateCourse").Msg("error: scanning error")
		return models.Course{}, err
	}

	return updated, nil
}

// DeleteCourse removes a course by id. Returns [ErrNotFound] when no row was
// deleted.
func (r *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Delete(models.Course{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*courseRepository.DeleteCourse").Msg("error: building delete")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*courseRepository.DeleteCourse").Msg("error: executing delete")
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

// scanCourse scans one courses row from a Row or Rows cursor, decoding the
// jsonb columns.
func scanCourse(row interface{ Scan(...any) error }) (models.Course, error) {
	var course models.Course
	var categories, photos, learningModes, videos []byte

	if err := row.Scan(&course.ID, &course.Title, &course.Slug, &course.PromotionURL, &categories,
		&course.Description, &course.LearningOutcomes, &course.Duration, &photos, &course.Price,
		&course.IsFeatured, &course.IsApproved, &course.DisapprovalReason, &learningModes, &videos,
		&course.Tutor, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return models.Course{}, err
	}

	for raw, dest := range map[*[]byte]any{
		&categories:    &course.Categories,
		&photos:        &course.Photos,
		&learningModes: &course.LearningModes,
		&videos:        &course.Videos,
	} {
		if err := scanJSONB(*raw, dest); err != nil {
			return models.Course{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
	}

	return course, nil
}
