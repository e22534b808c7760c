package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/americas-iot/sims-portal/internal/domain"
	apperrors "github.com/americas-iot/sims-portal/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// Gate validates bearer tokens and loads the verified principal. It runs on
// every protected entry point; there is no cached authorization within a
// request's lifetime.
type Gate struct {
	verifier *Verifier
}

// NewGate constructs the middleware.
func NewGate(verifier *Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (g *Gate) Handle(c *fiber.Ctx) error {
	raw, err := bearerToken(c)
	if err != nil {
		return err
	}

	user, claims, err := g.verifier.Verify(c.Context(), raw)
	if err != nil {
		return err
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("Token de autenticación no proporcionado")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.NewUnauthorized("Token de autenticación no proporcionado")
	}
	return parts[1], nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
