package middleware

import (
	"user-directory/session"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired guards a route group behind a valid session cookie.
func AuthRequired(sessionStore *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session_id")
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing session",
			})
		}

		sess, err := sessionStore.Get(sessionID)
		if err != nil || sess == nil {
			c.ClearCookie("session_id")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		c.Locals("accountID", sess.AccountID)
		c.Locals("accountPhone", sess.Phone)
		c.Locals("session", sess)
		return c.Next()
	}
}

func GetAccountID(c *fiber.Ctx) string {
	accountID, ok := c.Locals("accountID").(string)
	if !ok {
		return ""
	}
	return accountID
}

func GetAccountPhone(c *fiber.Ctx) string {
	phone, ok := c.Locals("accountPhone").(string)
	if !ok {
		return ""
	}
	return phone
}
