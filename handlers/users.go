package handlers

import (
	"github.com/gofiber/fiber/v2"

	"user-directory/app"
	"user-directory/models"
)

// ListUsers reloads the record list through the state container.
func ListUsers(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users := a.Users.FetchUsers()
		return success(c, fiber.Map{"users": users})
	}
}

// GetUserState returns the container snapshot: records, current selection,
// loading flag and last error.
func GetUserState(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{"state": a.Users.Snapshot()})
	}
}

// GetUser loads one record by id and selects it as current.
func GetUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return badRequest(c, "id is required")
		}

		user, err := a.Users.FetchUser(id)
		if err != nil {
			return repoError(c, "Failed to fetch user", err)
		}

		return success(c, fiber.Map{"user": user})
	}
}

// CreateUser creates a new record.
func CreateUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		user, err := a.Users.CreateUser(req)
		if err != nil {
			return repoError(c, "Failed to create user", err)
		}

		return created(c, fiber.Map{"user": user})
	}
}

// UpdateUser applies a partial update to a record. Absent fields are left
// unchanged.
func UpdateUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return badRequest(c, "id is required")
		}

		var req models.UpdateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.Empty() {
			return badRequest(c, "at least one field is required")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		user, err := a.Users.UpdateUser(id, req)
		if err != nil {
			return repoError(c, "Failed to update user", err)
		}

		return success(c, fiber.Map{"user": user})
	}
}

// DeleteUser removes a record.
func DeleteUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return badRequest(c, "id is required")
		}

		if err := a.Users.DeleteUser(id); err != nil {
			return repoError(c, "Failed to delete user", err)
		}

		return success(c, fiber.Map{
			"message": "User deleted successfully",
		})
	}
}

// ClearCurrentUser drops the current selection, used when leaving a detail
// view.
func ClearCurrentUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a.Users.ClearCurrent()
		return success(c, fiber.Map{"state": a.Users.Snapshot()})
	}
}

// ClearUserError drops the visible error message.
func ClearUserError(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a.Users.ClearError()
		return success(c, fiber.Map{"state": a.Users.Snapshot()})
	}
}
