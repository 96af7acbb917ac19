package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/models"
)

// ─────────────────────────────────────────────
// Mock: store.CourseRepository
// ─────────────────────────────────────────────

type mockCourseRepository struct {
	createFn         func(ctx context.Context, course models.Course) (models.Course, error)
	getFn            func(ctx context.Context, id string) (models.Course, error)
	getBySlugFn      func(ctx context.Context, slug string) (models.Course, error)
	listFn           func(ctx context.Context, opts store.ListOptions) ([]models.Course, error)
	countFn          func(ctx context.Context) (int, error)
	listCategoriesFn func(ctx context.Context) ([]string, error)
	updateFn         func(ctx context.Context, course models.Course) (models.Course, error)
	deleteFn         func(ctx context.Context, id string) error
}

func (m *mockCourseRepository) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	if m.createFn != nil {
		return m.createFn(ctx, course)
	}
	return course, nil
}

func (m *mockCourseRepository) GetCourse(ctx context.Context, id string) (models.Course, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return models.Course{}, store.ErrNotFound
}

func (m *mockCourseRepository) GetCourseBySlug(ctx context.Context, slug string) (models.Course, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return models.Course{}, store.ErrNotFound
}

func (m *mockCourseRepository) ListCourses(ctx context.Context, opts store.ListOptions) ([]models.Course, error) {
	if m.listFn != nil {
		return m.listFn(ctx, opts)
	}
	return nil, nil
}

func (m *mockCourseRepository) CountCourses(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockCourseRepository) ListCourseCategories(ctx context.Context) ([]string, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockCourseRepository) UpdateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, course)
	}
	return course, nil
}

func (m *mockCourseRepository) DeleteCourse(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

func TestSlugify(t *testing.T) {
	assert.Equal(t, "intro-to-go", slugify("Intro to Go"))
	assert.Equal(t, "design-101-basics", slugify("  Design 101 — Basics!  "))
	assert.Equal(t, "a-b", slugify("a///b"))
}

func TestCreateCourse_SlugCollisionGetsSuffix(t *testing.T) {
	ctx := context.Background()

	var attemptedSlugs []string
	repo := &mockCourseRepository{
		createFn: func(ctx context.Context, course models.Course) (models.Course, error) {
			attemptedSlugs = append(attemptedSlugs, course.Slug)
			if len(attemptedSlugs) < 3 {
				return models.Course{}, store.ErrSlugAlreadyExists
			}
			return course, nil
		},
	}
	svc := NewCourseService(repo, logger.Nop())

	actor := models.User{UserID: "tutor-1", Role: models.RoleUser}
	saved, err := svc.CreateCourse(ctx, actor, models.Course{Title: "Intro to Go", Description: "basics"})
	require.NoError(t, err)

	assert.Equal(t, []string{"intro-to-go", "intro-to-go-2", "intro-to-go-3"}, attemptedSlugs)
	assert.Equal(t, "intro-to-go-3", saved.Slug)
	assert.Equal(t, "tutor-1", saved.Tutor)
	assert.False(t, saved.IsApproved)
}

func TestUpdateCourse_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()

	repo := &mockCourseRepository{
		getFn: func(ctx context.Context, id string) (models.Course, error) {
			return models.Course{ID: id, Tutor: "tutor-1", Slug: "intro-to-go", IsApproved: true}, nil
		},
	}
	svc := NewCourseService(repo, logger.Nop())

	_, err := svc.UpdateCourse(ctx, models.User{UserID: "someone-else", Role: models.RoleUser}, models.Course{ID: "c-1", Title: "New"})
	assert.ErrorIs(t, err, ErrNotAllowed)

	updated, err := svc.UpdateCourse(ctx, models.User{UserID: "tutor-1", Role: models.RoleUser}, models.Course{ID: "c-1", Title: "New"})
	require.NoError(t, err)

	// slug, tutor and approval survive a content update
	assert.Equal(t, "intro-to-go", updated.Slug)
	assert.Equal(t, "tutor-1", updated.Tutor)
	assert.True(t, updated.IsApproved)
}

func TestApproveCourse_AdminOnly(t *testing.T) {
	ctx := context.Background()

	repo := &mockCourseRepository{
		getFn: func(ctx context.Context, id string) (models.Course, error) {
			return models.Course{ID: id, Tutor: "tutor-1", DisapprovalReason: "needs work"}, nil
		},
	}
	svc := NewCourseService(repo, logger.Nop())

	_, err := svc.ApproveCourse(ctx, models.User{UserID: "tutor-1", Role: models.RoleUser}, "c-1", true, "")
	assert.ErrorIs(t, err, ErrNotAllowed)

	approved, err := svc.ApproveCourse(ctx, models.User{UserID: "a-1", Role: models.RoleAdmin}, "c-1", true, "")
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.Empty(t, approved.DisapprovalReason)

	rejected, err := svc.ApproveCourse(ctx, models.User{UserID: "a-1", Role: models.RoleAdmin}, "c-1", false, "too short")
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)
	assert.Equal(t, "too short", rejected.DisapprovalReason)
}

func TestListCourses_ReturnsTotalCount(t *testing.T) {
	repo := &mockCourseRepository{
		listFn: func(ctx context.Context, opts store.ListOptions) ([]models.Course, error) {
			return []models.Course{{ID: "c-1"}, {ID: "c-2"}}, nil
		},
		countFn: func(ctx context.Context) (int, error) { return 42, nil },
	}
	svc := NewCourseService(repo, logger.Nop())

	courses, total, err := svc.ListCourses(context.Background(), store.ListOptions{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.Equal(t, 42, total)
}

func TestDeleteCourse_AdminOverridesOwnership(t *testing.T) {
	ctx := context.Background()

	repo := &mockCourseRepository{
		getFn: func(ctx context.Context, id string) (models.Course, error) {
			return models.Course{ID: id, Tutor: "tutor-1"}, nil
		},
	}
	svc := NewCourseService(repo, logger.Nop())

	assert.ErrorIs(t, svc.DeleteCourse(ctx, models.User{UserID: "u-2", Role: models.RoleUser}, "c-1"), ErrNotAllowed)
	assert.NoError(t, svc.DeleteCourse(ctx, models.User{UserID: "a-1", Role: models.RoleAdmin}, "c-1"))
}
