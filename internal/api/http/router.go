package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/forgot", cfg.Auth.ForgotPassword)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)

	users := app.Group("/users")
	me := users.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("/", cfg.Users.GetMe)
	me.Patch("/", cfg.Users.UpdateMe)
	me.Delete("/", cfg.Users.DeleteMe)
	me.Patch("/password", cfg.Users.ChangePassword)

	// public profile; registered after /me so the static segment wins
	users.Get("/:id", cfg.Users.GetPublicProfile)
}
