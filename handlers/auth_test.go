package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-directory/app"
	"user-directory/handlers"
)

func setupAuthApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	fiberApp.Post("/api/auth/register", handlers.Register(a))
	fiberApp.Post("/api/auth/register/resend", handlers.ResendOTP(a))
	fiberApp.Post("/api/auth/register/verify", handlers.VerifyOTP(a))
	fiberApp.Post("/api/auth/register/complete", handlers.CompleteRegistration(a))
	fiberApp.Post("/api/auth/login", handlers.Login(a))
	fiberApp.Post("/api/auth/logout", handlers.Logout(a))

	return fiberApp
}

// registerAccount drives the full flow: start, verify, complete.
func registerAccount(t *testing.T, env *testEnv, fiberApp *fiber.App, phone, password string) {
	t.Helper()

	resp, payload := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", fiber.Map{
		"phone": phone,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var challengeID string
	require.NoError(t, json.Unmarshal(payload["challenge_id"], &challengeID))

	// The code is not exposed over HTTP; read it from the challenge store
	ch := env.OTPStore.Get(challengeID)
	require.NotNil(t, ch)

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/api/auth/register/verify", fiber.Map{
		"challenge_id": challengeID,
		"code":         ch.Code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/api/auth/register/complete", fiber.Map{
		"challenge_id": challengeID,
		"password":     password,
		"confirm":      password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRegistrationFlow(t *testing.T) {
	env := setupTestEnv(t)
	fiberApp := setupAuthApp(env.App)

	registerAccount(t, env, fiberApp, "0912345678", "Str0ngpass")

	// The completed account can log in with the normalized phone
	resp, payload := doJSON(t, fiberApp, http.MethodPost, "/api/auth/login", fiber.Map{
		"phone":    "+84912345678",
		"password": "Str0ngpass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var account map[string]string
	require.NoError(t, json.Unmarshal(payload["account"], &account))
	assert.Equal(t, "+84912345678", account["phone"])
}

func TestRegister_DuplicatePhone(t *testing.T) {
	env := setupTestEnv(t)
	fiberApp := setupAuthApp(env.App)

	registerAccount(t, env, fiberApp, "0912345678", "Str0ngpass")

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", fiber.Map{
		"phone": "0912345678",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	env := setupTestEnv(t)
	fiberApp := setupAuthApp(env.App)

	resp, payload := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", fiber.Map{
		"phone": "0912345678",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var challengeID string
	require.NoError(t, json.Unmarshal(payload["challenge_id"], &challengeID))

	ch := env.OTPStore.Get(challengeID)
	require.NotNil(t, ch)
	wrong := "000000"
	if ch.Code == wrong {
		wrong = "000001"
	}

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/api/auth/register/verify", fiber.Map{
		"challenge_id": challengeID,
		"code":         wrong,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestResendOTP_InsideWindow(t *testing.T) {
	env := setupTestEnv(t)
	fiberApp := setupAuthApp(env.App)

	resp, payload := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", fiber.Map{
		"phone": "0912345678",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var challengeID string
	require.NoError(t, json.Unmarshal(payload["challenge_id"], &challengeID))

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/api/auth/register/resend", fiber.Map{
		"challenge_id": challengeID,
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCompleteRegistration_WeakPassword(t *testing.T) {
	env := setupTestEnv(t)
	fiberApp := setupAuthApp(env.App)

	resp, payload := doJSON(t, fiberApp, http.MethodPost, "/api/auth/register", fiber.Map{
		"phone": "0912345678",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var challengeID string
	require.NoError(t, json.Unmarshal(payload["challenge_id"], &challengeID))

	ch := env.OTPStore.Get(challengeID)
	require.NotNil(t, ch)

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/api/auth/register/verify", fiber.Map{
		"challenge_id": challengeID,
		"code":         ch.Code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/api/auth/register/complete", fiber.Map{
		"challenge_id": challengeID,
		"password":     "weakpassword",
		"confirm":      "weakpassword",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)
	fiberApp := setupAuthApp(env.App)

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/api/auth/login", fiber.Map{
		"phone":    "0912345678",
		"password": "Whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_WithoutSession(t *testing.T) {
	env := setupTestEnv(t)
	fiberApp := setupAuthApp(env.App)

	resp, _ := doJSON(t, fiberApp, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
