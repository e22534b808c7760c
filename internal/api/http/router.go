package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/americas-iot/sims-portal/internal/api/http/handlers"
	"github.com/americas-iot/sims-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Gate   *auth.Gate
}

// RegisterRoutes wires HTTP routes. Every protected route passes through the
// gate pipeline first; role checks are attached after it, per route.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Gate.Handle, cfg.Auth.Logout)
	authGroup.Get("/verify", cfg.Gate.Handle, cfg.Auth.Verify)

	users := app.Group("/users", cfg.Gate.Handle)
	users.Get("/me", cfg.Users.Me)

	admin := users.Group("", auth.RequireAdmin())
	admin.Get("/", cfg.Users.List)
	admin.Get("/:id", cfg.Users.Get)
	admin.Post("/", cfg.Users.Create)
	admin.Put("/:id", cfg.Users.Update)
	admin.Delete("/:id", cfg.Users.Delete)
}
