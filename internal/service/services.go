package service

import (
	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/payments"
	"github.com/o-dots/backend/internal/store"
)

type Services struct {
	AuthService       AuthService
	CourseService     CourseService
	PostService       PostService
	ProductService    ProductService
	DiscussionService DiscussionService
	MessageService    MessageService
	PaymentService    PaymentService
	SearchService     SearchService
}

// NewServices wires every service over the repositories, the email sender,
// and the payment-provider client.
func NewServices(storages *store.Storages, emailSender EmailSender, stripe payments.StripeClient, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:       NewAuthService(storages.UserRepository, storages.TokenRepository, emailSender, cfg.App, logger),
		CourseService:     NewCourseService(storages.CourseRepository, logger),
		PostService:       NewPostService(storages.PostRepository, logger),
		ProductService:    NewProductService(storages.ProductRepository, logger),
		DiscussionService: NewDiscussionService(storages.DiscussionRepository, logger),
		MessageService:    NewMessageService(storages.MessageRepository, logger),
		PaymentService:    NewPaymentService(storages.PaymentRepository, stripe, cfg.Payments, cfg.App.ClientURL, logger),
		SearchService:     NewSearchService(storages.SearchRepository),
	}
}
