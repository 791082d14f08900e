package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"user-directory/app"
	"user-directory/config"
	"user-directory/models"
	"user-directory/otp"
	"user-directory/services"
)

// Register starts phone registration: the number is normalized to E.164 and
// an OTP challenge is issued.
func Register(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		result, err := a.Registration.Start(req.Phone)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidPhone):
				return badRequest(c, err.Error())
			case errors.Is(err, services.ErrAccountExists):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			default:
				return serverErrorWithDetails(c, "Failed to start registration", err)
			}
		}

		return success(c, fiber.Map{
			"challenge_id": result.ChallengeID,
			"phone":        result.Phone,
			"expires_at":   result.ExpiresAt,
		})
	}
}

// ResendOTP reissues the code for an open challenge.
func ResendOTP(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ResendOTPRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		result, wait, err := a.Registration.Resend(req.ChallengeID)
		if err != nil {
			switch {
			case errors.Is(err, otp.ErrChallengeNotFound):
				return notFound(c, err.Error())
			case errors.Is(err, otp.ErrResendTooSoon):
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error":         err.Error(),
					"retry_after_s": int(wait.Seconds()) + 1,
				})
			default:
				return serverErrorWithDetails(c, "Failed to resend code", err)
			}
		}

		return success(c, fiber.Map{
			"challenge_id": result.ChallengeID,
			"phone":        result.Phone,
			"expires_at":   result.ExpiresAt,
		})
	}
}

// VerifyOTP checks the submitted code.
func VerifyOTP(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.VerifyOTPRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		if err := a.Registration.Verify(req.ChallengeID, req.Code); err != nil {
			switch {
			case errors.Is(err, otp.ErrChallengeNotFound):
				return notFound(c, err.Error())
			case errors.Is(err, otp.ErrCodeMismatch), errors.Is(err, otp.ErrTooManyAttempts):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
			default:
				return serverErrorWithDetails(c, "Failed to verify code", err)
			}
		}

		return success(c, fiber.Map{"verified": true})
	}
}

// CompleteRegistration sets the account password and signs the user in.
func CompleteRegistration(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CompleteRegistrationRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		account, sess, err := a.Registration.Complete(req.ChallengeID, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrWeakPassword):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, otp.ErrChallengeNotFound), errors.Is(err, otp.ErrNotVerified):
				return badRequest(c, err.Error())
			case errors.Is(err, services.ErrAccountExists):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			default:
				return serverErrorWithDetails(c, "Failed to complete registration", err)
			}
		}

		setSessionCookie(c, sess.ID, sess.ExpiresAt)

		return created(c, fiber.Map{
			"account": account,
		})
	}
}

// Login authenticates phone and password and sets the session cookie.
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		sess, err := a.Auth.Login(req.Phone, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			return serverErrorWithDetails(c, "Failed to log in", err)
		}

		setSessionCookie(c, sess.ID, sess.ExpiresAt)

		return success(c, fiber.Map{
			"success": true,
			"account": fiber.Map{
				"id":    sess.AccountID,
				"phone": sess.Phone,
			},
		})
	}
}

// Logout closes the current session.
func Logout(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session_id")
		if sessionID != "" {
			a.Auth.Logout(sessionID)
		}

		c.ClearCookie("session_id")

		return success(c, fiber.Map{"success": true})
	}
}

// Me returns the account behind the current session.
func Me(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := c.Locals("session").(*models.Session)
		if !ok || sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}

		return success(c, fiber.Map{
			"account": fiber.Map{
				"id":    sess.AccountID,
				"phone": sess.Phone,
			},
		})
	}
}

func setSessionCookie(c *fiber.Ctx, sessionID string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   config.AppConfig.Env == "production",
		SameSite: "Lax",
		Path:     "/",
	})
}
