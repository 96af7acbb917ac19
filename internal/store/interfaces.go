package store

import (
	"context"
	"time"

	"github.com/o-dots/backend/models"
)

// ListOptions carries the pagination and ordering parameters shared by all
// listing queries. A zero Limit means "no explicit limit"; repositories clamp
// it to a sane maximum. SortBy is validated against a per-repository column
// whitelist, unknown columns fall back to the repository default.
type ListOptions struct {
	Page   int
	Limit  int
	SortBy string
	Order  string // "asc" or "desc"
}

// Normalize clamps Page and Limit to the values the listing queries will
// actually use, so callers can derive page counts from the same numbers.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = defaultListLimit
	}
	if o.Limit > maxListLimit {
		o.Limit = maxListLimit
	}
	if o.Page < 1 {
		o.Page = 1
	}

	return o
}

// UserRepository persists and retrieves user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
	UpdatePassword(ctx context.Context, userID string, hashedPassword string) error
	MarkVerified(ctx context.Context, userID string) error
}

// TokenRepository persists issued credential records. Lookups always match
// on the (token, purpose) pair and exclude expired rows.
type TokenRepository interface {
	SaveToken(ctx context.Context, token models.Token) (models.Token, error)
	FindToken(ctx context.Context, token string, purpose string) (models.Token, error)
	DeleteToken(ctx context.Context, tokenID string) error
	DeleteUserTokens(ctx context.Context, userID string, purpose string) error
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}

// CourseRepository persists learning courses.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course models.Course) (models.Course, error)
	GetCourse(ctx context.Context, id string) (models.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (models.Course, error)
	ListCourses(ctx context.Context, opts ListOptions) ([]models.Course, error)
	CountCourses(ctx context.Context) (int, error)
	ListCourseCategories(ctx context.Context) ([]string, error)
	UpdateCourse(ctx context.Context, course models.Course) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// PostRepository persists editorial posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	ListPosts(ctx context.Context, opts ListOptions) ([]models.Post, error)
	CountPosts(ctx context.Context) (int, error)
	UpdatePost(ctx context.Context, post models.Post) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// ProductRepository persists catalogue products.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ListProducts(ctx context.Context, opts ListOptions) ([]models.Product, error)
	CountProducts(ctx context.Context) (int, error)
	UpdateProduct(ctx context.Context, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// DiscussionRepository persists discussion and event containers.
type DiscussionRepository interface {
	CreateDiscussion(ctx context.Context, discussion models.Discussion) (models.Discussion, error)
	GetDiscussion(ctx context.Context, id string) (models.Discussion, error)
	ListDiscussions(ctx context.Context, opts ListOptions) ([]models.Discussion, error)
	CountDiscussions(ctx context.Context) (int, error)
	UpdateDiscussion(ctx context.Context, discussion models.Discussion) (models.Discussion, error)
	DeleteDiscussion(ctx context.Context, id string) error
}

// MessageRepository persists chat messages. CreateMessage enforces the
// (text, sender, discussion, timestamp) natural key and returns
// [ErrDuplicateMessage] on collision.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message models.Message) (models.Message, error)
	GetMessage(ctx context.Context, id string) (models.Message, error)
	MessageExists(ctx context.Context, message models.Message) (bool, error)
	ListMessagesByDiscussion(ctx context.Context, discussionID string) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

// PaymentRepository persists checkout attempts.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error)
	GetPayment(ctx context.Context, id string) (models.Payment, error)
	ListPayments(ctx context.Context, opts ListOptions) ([]models.Payment, error)
	FindPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error)
	ResolvePayment(ctx context.Context, id string, status string, providerPaymentID string) (models.Payment, error)
}

// SearchRepository runs the cross-table keyword search.
type SearchRepository interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}
