package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/qa-admin-service/internal/api/dto"
	"github.com/spec-kit/qa-admin-service/internal/service"
	apperrors "github.com/spec-kit/qa-admin-service/pkg/util"
)

// UsersHandler exposes the user CRUD endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users, answering in the DataTables envelope.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, total, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, dto.UserResponseFrom(&users[i]))
	}

	return c.JSON(dto.UserListEnvelope{
		Draw:            c.QueryInt("draw", 1),
		RecordsTotal:    total,
		RecordsFiltered: len(data),
		Data:            data,
	})
}

// Count handles GET /api/users/count.
func (h *UsersHandler) Count(c *fiber.Ctx) error {
	count, err := h.users.CountUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   count,
	})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.UserResponseFrom(user))
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("No data provided", nil)
	}

	user, err := h.users.CreateUser(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"user":    dto.UserResponseFrom(user),
	})
}

// Update handles PUT /api/users/:id with a partial JSON body.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	payload := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return apperrors.NewValidationError("No update data provided", nil)
		}
	}

	outcome, err := h.users.UpdateUser(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return err
	}

	message := "User updated successfully"
	if outcome == service.OutcomeNoChanges {
		message = "No changes made to user"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
