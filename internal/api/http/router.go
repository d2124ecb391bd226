package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/face-lock-service/internal/api/http/handlers"
	"github.com/spec-kit/face-lock-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Enrollment     *handlers.EnrollmentHandler
	Verification   *handlers.VerificationHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Welcome)
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/register/", cfg.Enrollment.Register)
	app.Post("/verify/", cfg.Verification.Verify)
	app.Post("/token", cfg.Verification.Token)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me/", cfg.Users.Me)
	users.Get("/me/history/", cfg.Users.History)
	users.Get("/", cfg.Users.List)
	users.Delete("/:user_id/", cfg.Users.Delete)
}
