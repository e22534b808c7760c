package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/americas-iot/sims-portal/internal/domain"
	apperrors "github.com/americas-iot/sims-portal/pkg/util"
)

// RequireRole is the role-check stage of the gate pipeline. It must run after
// Gate.Handle so the principal's role reflects the freshly fetched record.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("Token de autenticación no proporcionado")
		}
		if principal.User.Rol != required {
			if required == domain.RoleAdmin {
				return apperrors.NewInsufficientRole("Acceso denegado. Se requieren privilegios de administrador")
			}
			return apperrors.NewInsufficientRole("Acceso denegado. Se requieren privilegios de usuario")
		}
		return c.Next()
	}
}

// RequireAdmin gates admin-only routes.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
