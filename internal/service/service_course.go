package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// slugAttempts bounds the numeric-suffix retry loop on slug collisions.
const slugAttempts = 10

// courseService implements CourseService. Courses are authored by their
// tutor and stay unlisted (IsApproved=false) until an admin approves them.
type courseService struct {
	courseRepository store.CourseRepository
	logger           *logger.Logger
}

// NewCourseService constructs a CourseService over the given repository.
func NewCourseService(courseRepository store.CourseRepository, logger *logger.Logger) CourseService {
	return &courseService{
		courseRepository: courseRepository,
		logger:           logger,
	}
}

// CreateCourse persists a new course authored by actor. The slug is
// generated from the title; on collision a numeric suffix is appended and
// the insert retried.
func (c *courseService) CreateCourse(ctx context.Context, actor models.User, course models.Course) (models.Course, error) {
	log := logger.FromContext(ctx)

	if course.Title == "" || course.Description == "" {
		return models.Course{}, ErrInvalidDataProvided
	}

	course.ID = utils.NewID()
	course.Tutor = actor.UserID
	course.IsApproved = false
	course.DisapprovalReason = ""

	baseSlug := slugify(course.Title)
	course.Slug = baseSlug

	for attempt := 2; ; attempt++ {
		saved, err := c.courseRepository.CreateCourse(ctx, course)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, store.ErrSlugAlreadyExists) || attempt > slugAttempts {
			log.Err(err).Str("slug", course.Slug).Msg("course creation ended with error")
			return models.Course{}, fmt.Errorf("course creation ended with error: %w", err)
		}
		course.Slug = baseSlug + "-" + strconv.Itoa(attempt)
	}
}

// GetCourse retrieves a course by id.
func (c *courseService) GetCourse(ctx context.Context, id string) (models.Course, error) {
	course, err := c.courseRepository.GetCourse(ctx, id)
	if err != nil {
		return models.Course{}, fmt.Errorf("course lookup failed: %w", err)
	}
	return course, nil
}

// GetCourseBySlug retrieves a course by its unique slug.
func (c *courseService) GetCourseBySlug(ctx context.Context, slug string) (models.Course, error) {
	course, err := c.courseRepository.GetCourseBySlug(ctx, slug)
	if err != nil {
		return models.Course{}, fmt.Errorf("course lookup failed: %w", err)
	}
	return course, nil
}

// ListCourses retrieves a page of courses plus the total course count.
func (c *courseService) ListCourses(ctx context.Context, opts store.ListOptions) ([]models.Course, int, error) {
	courses, err := c.courseRepository.ListCourses(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("course listing failed: %w", err)
	}

	total, err := c.courseRepository.CountCourses(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("course counting failed: %w", err)
	}

	return courses, total, nil
}

// ListCategories returns the distinct category labels across all courses.
func (c *courseService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := c.courseRepository.ListCourseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("course category listing failed: %w", err)
	}
	return categories, nil
}

// UpdateCourse replaces a course's content. Only the course's tutor or an
// admin may update it; the slug, tutor, and approval fields are preserved
// from the stored record (approval changes go through ApproveCourse).
func (c *courseService) UpdateCourse(ctx context.Context, actor models.User, course models.Course) (models.Course, error) {
	log := logger.FromContext(ctx)

	existing, err := c.courseRepository.GetCourse(ctx, course.ID)
	if err != nil {
		return models.Course{}, fmt.Errorf("course lookup failed: %w", err)
	}

	if existing.Tutor != actor.UserID && !actor.IsAdmin() {
		log.Error().Str("courseID", course.ID).Str("actor", actor.UserID).Msg("course update denied")
		return models.Course{}, ErrNotAllowed
	}

	course.Slug = existing.Slug
	course.Tutor = existing.Tutor
	course.IsApproved = existing.IsApproved
	course.DisapprovalReason = existing.DisapprovalReason

	updated, err := c.courseRepository.UpdateCourse(ctx, course)
	if err != nil {
		log.Err(err).Str("courseID", course.ID).Msg("course update ended with error")
		return models.Course{}, fmt.Errorf("course update ended with error: %w", err)
	}

	return updated, nil
}

// ApproveCourse flips a course's approval state. Admin only. A rejection
// records the reason shown to the tutor.
func (c *courseService) ApproveCourse(ctx context.Context, actor models.User, id string, approve bool, reason string) (models.Course, error) {
	log := logger.FromContext(ctx)

	if !actor.IsAdmin() {
		log.Error().Str("courseID", id).Str("actor", actor.UserID).Msg("course approval denied")
		return models.Course{}, ErrNotAllowed
	}

	course, err := c.courseRepository.GetCourse(ctx, id)
	if err != nil {
		return models.Course{}, fmt.Errorf("course lookup failed: %w", err)
	}

	course.IsApproved = approve
	if approve {
		course.DisapprovalReason = ""
	} else {
		course.DisapprovalReason = reason
	}

	updated, err := c.courseRepository.UpdateCourse(ctx, course)
	if err != nil {
		return models.Course{}, fmt.Errorf("course approval ended with error: %w", err)
	}

	return updated, nil
}

// DeleteCourse removes a course. Only the course's tutor or an admin may
// delete it.
func (c *courseService) DeleteCourse(ctx context.Context, actor models.User, id string) error {
	log := logger.FromContext(ctx)

	existing, err := c.courseRepository.GetCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("course lookup failed: %w", err)
	}

	if existing.Tutor != actor.UserID && !actor.IsAdmin() {
		log.Error().Str("courseID", id).Str("actor", actor.UserID).Msg("course delete denied")
		return ErrNotAllowed
	}

	if err := c.courseRepository.DeleteCourse(ctx, id); err != nil {
		return fmt.Errorf("course delete ended with error: %w", err)
	}

	return nil
}

// slugify lowercases the title and collapses every non-alphanumeric run
// into a single hyphen.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
