package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/maglieria/storefront/internal/application"
)

// Handler is the HTTP adapter entrypoint for storefront use-cases.
type Handler struct {
	service *application.Service
	ready   func(ctx context.Context) error
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// WithReadiness makes /readyz report the result of check.
func (h *Handler) WithReadiness(check func(ctx context.Context) error) *Handler {
	h.ready = check
	return h
}

// RouterOptions tunes the cross-cutting middleware.
type RouterOptions struct {
	AllowedOrigins []string
	// AuthRatePerMinute and AuthBurst bound the credential endpoints per client IP.
	AuthRatePerMinute int
	AuthBurst         int
	// TrustProxy takes the client address from X-Forwarded-For or X-Real-IP.
	// Leave it off unless a reverse proxy overwrites those headers.
	TrustProxy bool
}

// NewRouter registers the storefront routes and middleware stack.
func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	limiter := newIPRateLimiter(opts.AuthRatePerMinute, opts.AuthBurst)

	r := chi.NewRouter()
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeaders)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Content-Disposition"},
		MaxAge:         600,
	}).Handler)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.middleware)
			r.Post("/register", handler.register)
			r.Post("/login", handler.login)
			r.Post("/forgot-password", handler.forgotPassword)
			r.Post("/password-reset", handler.passwordReset)
		})

		r.Get("/products", handler.listProducts)
		r.Get("/products/{id}", handler.getProduct)
		r.Get("/comments", handler.listComments)
		r.Post("/comments", handler.addComment)

		r.With(handler.optionalAuth).Post("/orders", handler.submitOrder)

		r.Group(func(r chi.Router) {
			r.Use(handler.requireAuth)
			r.Get("/me", handler.me)
			r.Get("/me/orders", handler.myOrders)
			r.Put("/users/{id}", handler.updateProfile)
			r.Get("/orders/{id}/items", handler.orderItems)
		})

		r.Group(func(r chi.Router) {
			r.Use(handler.requireAuth)
			r.Use(handler.requireAdmin)
			r.Post("/products", handler.createProduct)
			r.Put("/products/{id}", handler.updateProduct)
			r.Delete("/products/{id}", handler.deleteProduct)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/orders", handler.adminListOrders)
				r.Put("/orders/{id}/status", handler.adminUpdateOrderStatus)
				r.Delete("/orders/{id}", handler.adminDeleteOrder)
				r.Get("/orders/{id}/receipt", handler.adminOrderReceipt)
				r.Get("/users", handler.adminListUsers)
				r.Delete("/users/{id}", handler.adminDeleteUser)
				r.Put("/users/{id}/role", handler.adminSetUserRole)
			})
		})
	})

	return r
}
