// Package http provides HTTP routing and middleware configuration
// for the contacts service.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atarasov/contactbook/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the contacts
// API. It applies request logging and bearer-token authentication and mounts
// the auth, identity, and contact endpoints under /api.
//
// Parameters:
//
//	authHandler     - handler for registration, login and identity endpoints
//	contactsHandler - handler for contact CRUD endpoints
//	verifier        - bearer token verifier for the protected group
//	logger          - structured logger for request logging middleware
//
// Routes:
//
//	POST   /api/auth/register  → authHandler.Register (public)
//	POST   /api/auth/login     → authHandler.Login    (public)
//	GET    /api/users/me       → authHandler.Me       (bearer)
//	GET    /api/contacts       → contactsHandler.List (bearer)
//	POST   /api/contacts       → contactsHandler.Create (bearer)
//	GET    /api/contacts/{id}  → contactsHandler.Get  (bearer)
//	PUT    /api/contacts/{id}  → contactsHandler.Update (bearer)
//	DELETE /api/contacts/{id}  → contactsHandler.Delete (bearer)
func NewRouter(
	authHandler *AuthHandler,
	contactsHandler *ContactsHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))

			r.Get("/users/me", authHandler.Me)

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", contactsHandler.List)
				r.Post("/", contactsHandler.Create)
				r.Get("/{id}", contactsHandler.Get)
				r.Put("/{id}", contactsHandler.Update)
				r.Delete("/{id}", contactsHandler.Delete)
			})
		})
	})

	return r
}
