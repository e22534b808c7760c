package dto

import "github.com/americas-iot/sims-portal/internal/domain"

// LoginRequest payload. Exactly one of Username/Email must be set.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser is the compact user object returned by login and verify.
type AuthUser struct {
	ID        string            `json:"id"`
	Nombre    string            `json:"nombre"`
	Apellidos string            `json:"apellidos"`
	Email     string            `json:"email"`
	Username  string            `json:"username"`
	Rol       domain.Role       `json:"rol"`
	Status    domain.UserStatus `json:"status"`
}

// NewAuthUser maps the domain model to its auth wire shape.
func NewAuthUser(user *domain.User) AuthUser {
	return AuthUser{
		ID:        user.ID,
		Nombre:    user.Nombre,
		Apellidos: user.Apellidos,
		Email:     user.Email,
		Username:  user.Username,
		Rol:       user.Rol,
		Status:    user.Status,
	}
}

// LoginResponse is returned on successful login; Token and User are present
// only on success.
type LoginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerifyResponse is returned by GET /auth/verify on success.
type VerifyResponse struct {
	Success bool     `json:"success"`
	User    AuthUser `json:"user"`
}
