package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/o-dots/backend/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", refreshTokenHeader},
		ExposedHeaders: []string{"Authorization", refreshTokenHeader, traceIDHeader},
		MaxAge:         300,
	}))

	router.Get("/", h.health)

	// the websocket endpoint authenticates inside the handshake and must not
	// run under the request timeout
	router.Get("/ws", h.serveWS)

	// credential-handling routes, rate limited per client IP
	router.Group(func(r chi.Router) {
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}
		r.Use(h.withAuthRateLimit)

		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh-token", h.refreshToken)
		r.Post("/api/auth/forgot-password", h.forgotPassword)
		r.Post("/api/auth/reset-password", h.resetPassword)
		r.Get("/api/auth/verify-email", h.verifyEmail)
	})

	// public reads and provider callbacks
	router.Group(func(r chi.Router) {
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}

		r.Get("/api/search", h.search)

		r.Get("/api/courses", h.listCourses)
		r.Get("/api/courses/categories", h.listCourseCategories)
		r.Get("/api/courses/slug/{slug}", h.getCourseBySlug)
		r.Get("/api/courses/{id}", h.getCourse)

		r.Get("/api/posts", h.listPosts)
		r.Get("/api/posts/{id}", h.getPost)

		r.Get("/api/products", h.listProducts)
		r.Get("/api/products/{id}", h.getProduct)

		r.Get("/api/discussions", h.listDiscussions)
		r.Get("/api/discussions/{id}", h.getDiscussion)
		r.Get("/api/messages/discussion/{id}", h.listDiscussionMessages)

		r.Post("/api/payments/stripewebhook", h.stripeWebhook)
	})

	// routes requiring authorization
	router.Group(func(r chi.Router) {
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}
		r.Use(h.auth)

		r.Get("/api/users/me", h.me)

		r.Post("/api/courses", h.createCourse)
		r.Put("/api/courses/{id}", h.updateCourse)
		r.With(h.requireRole(models.RoleAdmin)).Put("/api/courses/{id}/approve", h.approveCourse)
		r.Delete("/api/courses/{id}", h.deleteCourse)

		r.Post("/api/posts", h.createPost)
		r.Put("/api/posts/{id}", h.updatePost)
		r.Delete("/api/posts/{id}", h.deletePost)

		r.Post("/api/products", h.createProduct)
		r.Put("/api/products/{id}", h.updateProduct)
		r.Delete("/api/products/{id}", h.deleteProduct)

		r.Post("/api/discussions", h.createDiscussion)
		r.Put("/api/discussions/{id}", h.updateDiscussion)
		r.Delete("/api/discussions/{id}", h.deleteDiscussion)

		r.Delete("/api/messages/{id}", h.deleteMessage)

		r.Post("/api/payments/create-checkout-session", h.createCheckoutSession)
		r.Get("/api/payments/session-status", h.sessionStatus)
		r.Get("/api/payments/user", h.listUserPayments)
	})

	return router
}
