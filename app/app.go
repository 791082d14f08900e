package app

import (
	"log/slog"

	"user-directory/repository"
	"user-directory/services"
	"user-directory/session"
	"user-directory/store"
	"user-directory/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Users        *store.Store
	Repo         *repository.UserRepository
	Registration *services.RegistrationService
	Auth         *services.AuthService
	SessionStore *session.Store
	Validator    *validator.Validator
	Logger       *slog.Logger
}

// New creates a new App instance with all dependencies
func New(users *store.Store, repo *repository.UserRepository, registration *services.RegistrationService, auth *services.AuthService, sessionStore *session.Store, logger *slog.Logger) *App {
	return &App{
		Users:        users,
		Repo:         repo,
		Registration: registration,
		Auth:         auth,
		SessionStore: sessionStore,
		Validator:    validator.New(),
		Logger:       logger,
	}
}
