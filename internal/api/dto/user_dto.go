package dto

import (
	"time"

	"github.com/americas-iot/sims-portal/internal/domain"
	"github.com/americas-iot/sims-portal/internal/service"
)

// UserDetail is the full user object returned by the admin CRUD endpoints.
type UserDetail struct {
	ID        string            `json:"id"`
	Nombre    string            `json:"nombre"`
	Apellidos string            `json:"apellidos"`
	Email     string            `json:"email"`
	Telefono  string            `json:"num_telefonico"`
	Username  string            `json:"username"`
	Rol       domain.Role       `json:"rol"`
	Status    domain.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewUserDetail maps the domain model, never exposing the password hash.
func NewUserDetail(user *domain.User) UserDetail {
	return UserDetail{
		ID:        user.ID,
		Nombre:    user.Nombre,
		Apellidos: user.Apellidos,
		Email:     user.Email,
		Telefono:  user.Telefono,
		Username:  user.Username,
		Rol:       user.Rol,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// CreateUserRequest payload for admin provisioning.
type CreateUserRequest struct {
	Nombre    string            `json:"nombre"`
	Apellidos string            `json:"apellidos"`
	Email     string            `json:"email"`
	Telefono  string            `json:"num_telefonico"`
	Username  string            `json:"username"`
	Password  string            `json:"password"`
	Rol       domain.Role       `json:"rol"`
	Status    domain.UserStatus `json:"status"`
}

// UpdateUserRequest payload for partial edits; absent fields stay unchanged.
type UpdateUserRequest struct {
	Nombre    *string            `json:"nombre"`
	Apellidos *string            `json:"apellidos"`
	Email     *string            `json:"email"`
	Telefono  *string            `json:"num_telefonico"`
	Username  *string            `json:"username"`
	Password  *string            `json:"password"`
	Rol       *domain.Role       `json:"rol"`
	Status    *domain.UserStatus `json:"status"`
}

// Pagination describes a listing page.
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Success    bool         `json:"success"`
	Pagination Pagination   `json:"pagination"`
	Users      []UserDetail `json:"users"`
}

// NewListUsersResponse maps a service page to the wire shape.
func NewListUsersResponse(page *service.UserPage) ListUsersResponse {
	users := make([]UserDetail, 0, len(page.Users))
	for _, user := range page.Users {
		users = append(users, NewUserDetail(user))
	}
	return ListUsersResponse{
		Success: true,
		Pagination: Pagination{
			Total:       page.Total,
			Page:        page.Page,
			Limit:       page.Limit,
			TotalPages:  page.TotalPages,
			HasNextPage: page.HasNextPage(),
			HasPrevPage: page.HasPrevPage(),
		},
		Users: users,
	}
}
