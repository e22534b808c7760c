package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/americas-iot/sims-portal/internal/api/dto"
	"github.com/americas-iot/sims-portal/internal/auth"
	"github.com/americas-iot/sims-portal/internal/service"
	apperrors "github.com/americas-iot/sims-portal/pkg/util"
)

// AuthHandler exposes login, logout and verify endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingCredentials("Username o email, y password son requeridos")
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Success: true,
		Message: "Login exitoso",
		Token:   token,
		User:    dto.NewAuthUser(user),
	})
}

// Logout handles POST /auth/logout. The gate has already admitted the caller;
// with stateless tokens there is no server-side session to invalidate.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.auth.Logout(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(dto.LogoutResponse{Success: true, Message: "Logout exitoso"})
}

// Verify handles GET /auth/verify. The gate pipeline re-fetched the subject,
// so the principal reflects the user's current role and status.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	return c.JSON(dto.VerifyResponse{
		Success: true,
		User:    dto.NewAuthUser(principal.User),
	})
}
