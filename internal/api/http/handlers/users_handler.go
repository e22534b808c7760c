package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/americas-iot/sims-portal/internal/api/dto"
	"github.com/americas-iot/sims-portal/internal/auth"
	"github.com/americas-iot/sims-portal/internal/service"
	apperrors "github.com/americas-iot/sims-portal/pkg/util"
)

// UsersHandler exposes account endpoints: /users/me for any authenticated
// caller and admin-only CRUD.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserDetail(principal.User),
	})
}

// List handles GET /users with page/limit query parameters.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 15)

	result, err := h.users.List(c.Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListUsersResponse(result))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserDetail(user),
	})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Todos los campos obligatorios deben ser proporcionados", nil)
	}

	user, err := h.users.Create(c.Context(), service.CreateInput{
		Nombre:    req.Nombre,
		Apellidos: req.Apellidos,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Username:  req.Username,
		Password:  req.Password,
		Rol:       req.Rol,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Usuario creado exitosamente",
		"user":    dto.NewUserDetail(user),
	})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Payload inválido", nil)
	}

	user, err := h.users.Update(c.Context(), c.Params("id"), service.UpdateInput{
		Nombre:    req.Nombre,
		Apellidos: req.Apellidos,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Username:  req.Username,
		Password:  req.Password,
		Rol:       req.Rol,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Usuario actualizado exitosamente",
		"user":    dto.NewUserDetail(user),
	})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Usuario eliminado exitosamente",
	})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
