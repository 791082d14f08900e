package setup

import (
	"fmt"
	"log/slog"

	"user-directory/app"
	"user-directory/config"
	"user-directory/otp"
	"user-directory/repository"
	"user-directory/services"
	"user-directory/session"
	"user-directory/storage"
	"user-directory/store"
)

// InitStorage opens the durable blob store selected by STORAGE_BACKEND.
func InitStorage(logger *slog.Logger) (storage.Provider, error) {
	cfg := config.AppConfig

	var provider storage.Provider
	var err error

	switch cfg.StorageBackend {
	case "bolt":
		provider, err = storage.NewBolt(cfg.StoragePath)
	case "sqlite":
		provider, err = storage.NewSQLite(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("storage initialized", "backend", cfg.StorageBackend, "path", cfg.StoragePath)
	return provider, nil
}

// Deps bundles everything InitApp wires together, for shutdown.
type Deps struct {
	App          *app.App
	SessionStore *session.Store
	OTPStore     *otp.Store
	Storage      storage.Provider
}

// InitApp initializes the application with all dependencies
func InitApp(provider storage.Provider, logger *slog.Logger) *Deps {
	// Repositories over the blob store
	users := repository.NewUserRepository(provider, logger)
	accounts := repository.NewAccountRepository(provider, logger)

	// State container over the user repository
	userStore := store.New(users)
	logger.Info("user state container initialized")

	// In-memory session and OTP stores with periodic cleanup
	sessionStore := session.NewStore()
	sessionStore.StartCleanupRoutine()
	logger.Info("session cleanup routine started")

	otpStore := otp.NewStore()
	otpStore.StartCleanupRoutine()
	logger.Info("otp cleanup routine started")

	registration := services.NewRegistrationService(accounts, otpStore, sessionStore, logger)
	auth := services.NewAuthService(accounts, sessionStore, logger)

	application := app.New(userStore, users, registration, auth, sessionStore, logger)
	logger.Info("application initialized with dependency injection")

	return &Deps{
		App:          application,
		SessionStore: sessionStore,
		OTPStore:     otpStore,
		Storage:      provider,
	}
}

// Shutdown performs graceful shutdown of all services
func Shutdown(deps *Deps, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if deps.SessionStore != nil {
		deps.SessionStore.Stop()
		logger.Info("session store stopped")
	}

	if deps.OTPStore != nil {
		deps.OTPStore.Stop()
		logger.Info("otp store stopped")
	}

	if deps.Storage != nil {
		if err := deps.Storage.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		} else {
			logger.Info("storage closed")
		}
	}
}
