package service

import (
	"context"

	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/models"
)

type AuthService interface {
	Register(ctx context.Context, user models.User) (models.User, error)
	VerifyEmail(ctx context.Context, token string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	GenerateResetToken(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	// Authenticate validates an access token and loads its user. An expired
	// but otherwise valid token is reported via ErrTokenIsExpired so the
	// middleware can attempt the silent-refresh path.
	Authenticate(ctx context.Context, accessToken string) (models.User, error)

	// RefreshCredentials rotates a full token pair off a valid persisted
	// refresh token. Used by the middleware's silent-refresh path.
	RefreshCredentials(ctx context.Context, refreshToken string) (models.User, models.TokenPair, error)
}

// EmailSender dispatches the transactional emails of the auth flows.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

type CourseService interface {
	CreateCourse(ctx context.Context, actor models.User, course models.Course) (models.Course, error)
	GetCourse(ctx context.Context, id string) (models.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (models.Course, error)
	// ListCourses retrieves a page of courses plus the total course count
	// for deriving page numbers.
	ListCourses(ctx context.Context, opts store.ListOptions) ([]models.Course, int, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateCourse(ctx context.Context, actor models.User, course models.Course) (models.Course, error)
	ApproveCourse(ctx context.Context, actor models.User, id string, approve bool, reason string) (models.Course, error)
	DeleteCourse(ctx context.Context, actor models.User, id string) error
}

type PostService interface {
	CreatePost(ctx context.Context, actor models.User, post models.Post) (models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	ListPosts(ctx context.Context, opts store.ListOptions) ([]models.Post, int, error)
	UpdatePost(ctx context.Context, actor models.User, post models.Post) (models.Post, error)
	DeletePost(ctx context.Context, actor models.User, id string) error
}

type ProductService interface {
	CreateProduct(ctx context.Context, actor models.User, product models.Product) (models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ListProducts(ctx context.Context, opts store.ListOptions) ([]models.Product, int, error)
	UpdateProduct(ctx context.Context, actor models.User, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, actor models.User, id string) error
}

type DiscussionService interface {
	CreateDiscussion(ctx context.Context, actor models.User, discussion models.Discussion) (models.Discussion, error)
	GetDiscussion(ctx context.Context, id string) (models.Discussion, error)
	ListDiscussions(ctx context.Context, opts store.ListOptions) ([]models.Discussion, int, error)
	UpdateDiscussion(ctx context.Context, actor models.User, discussion models.Discussion) (models.Discussion, error)
	DeleteDiscussion(ctx context.Context, actor models.User, id string) error
}

type MessageService interface {
	// CreateMessage persists a chat line, enforcing the natural-key
	// duplicate gate. Returns store.ErrDuplicateMessage on a replay.
	CreateMessage(ctx context.Context, message models.Message) (models.Message, error)
	ListByDiscussion(ctx context.Context, discussionID string) ([]models.Message, error)
	DeleteMessage(ctx context.Context, actor models.User, id string) error
}

type PaymentService interface {
	// CreateCheckoutSession records a processing payment and opens a
	// provider checkout session carrying the payment id in metadata.
	// Returns the stored payment and the session redirect URL.
	CreateCheckoutSession(ctx context.Context, actor models.User, payment models.Payment) (models.Payment, string, error)

	// HandleWebhookEvent re-retrieves the delivered event from the provider
	// and resolves the referenced payment exactly once.
	HandleWebhookEvent(ctx context.Context, eventID string) (models.Payment, error)

	// SessionStatus polls the payment referenced by a checkout session
	// until the webhook resolves it or the bounded poll gives up with
	// ErrPaymentStillProcessing.
	SessionStatus(ctx context.Context, sessionID string) (models.Payment, error)

	ListUserPayments(ctx context.Context, email string) ([]models.Payment, error)
}

type SearchService interface {
	Search(ctx context.Context, keyword string, limit int) ([]models.SearchResult, error)
}
