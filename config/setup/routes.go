package setup

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"user-directory/app"
	"user-directory/handlers"
	"user-directory/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {

	// Public routes
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	// Registration and auth routes
	fiberApp.Post("/api/auth/register", handlers.Register(application))
	fiberApp.Post("/api/auth/register/resend", handlers.ResendOTP(application))
	fiberApp.Post("/api/auth/register/verify", handlers.VerifyOTP(application))
	fiberApp.Post("/api/auth/register/complete", handlers.CompleteRegistration(application))
	fiberApp.Post("/api/auth/login", handlers.Login(application))
	fiberApp.Post("/api/auth/logout", handlers.Logout(application))

	// Protected API routes
	api := fiberApp.Group("/api", middleware.AuthRequired(application.SessionStore), limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if accountID, ok := c.Locals("accountID").(string); ok {
				return "account:" + accountID
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded for your account",
			})
		},
	}))

	api.Get("/auth/me", handlers.Me(application))

	api.Get("/users", handlers.ListUsers(application))
	api.Get("/users/state", handlers.GetUserState(application))
	api.Post("/users", handlers.CreateUser(application))
	api.Post("/users/current/clear", handlers.ClearCurrentUser(application))
	api.Post("/users/error/clear", handlers.ClearUserError(application))
	api.Get("/users/:id", handlers.GetUser(application))
	api.Put("/users/:id", handlers.UpdateUser(application))
	api.Delete("/users/:id", handlers.DeleteUser(application))
}
