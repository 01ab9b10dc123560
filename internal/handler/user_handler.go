package handler

import (
	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/middleware"
	"umkm-pos/internal/model"
	"umkm-pos/internal/service"
	"umkm-pos/pkg/apperror"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	user, err := h.userService.CreateUser(c.UserContext(), a, &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user.ToResponse(),
	})
}

// GetUsers returns the users of the caller's company
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	users, err := h.userService.GetAllUsers(c.UserContext(), a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// GetUser returns a single user. Users may always read themselves; reading
// others needs user:view.
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	// Self lookups back profile resolution and work without a company.
	if p := middleware.ProfileFrom(c); p != nil && p.ID == userID {
		user, err := h.userService.GetSelf(c.UserContext(), userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(user)
	}

	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	if !middleware.ProfileFrom(c).Can(model.PrivUserView) {
		return apperror.Respond(c, apperror.Forbidden("requires '"+model.PrivUserView+"' privilege"))
	}

	user, err := h.userService.GetUserByID(c.UserContext(), a, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	user, err := h.userService.UpdateUser(c.UserContext(), a, userID, &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    user.ToResponse(),
	})
}

// DeleteUser deactivates a user
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.userService.DeleteUser(c.UserContext(), a, userID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// GetRoles lists assignable roles with their privileges.
// GET /api/v1/roles
func (h *UserHandler) GetRoles(c *fiber.Ctx) error {
	type roleView struct {
		Code       model.Role `json:"code"`
		Label      string     `json:"label"`
		Privileges []string   `json:"privileges"`
	}
	out := make([]roleView, 0, len(model.AllRoles))
	for _, r := range model.AllRoles {
		out = append(out, roleView{Code: r, Label: r.Label(), Privileges: r.Privileges()})
	}
	return c.JSON(out)
}
