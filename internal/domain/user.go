package domain

import "time"

// Role is the closed set of portal roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// HomePath returns the landing route for the role.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin"
	}
	return "/users"
}

// UserStatus represents lifecycle states for a portal user.
// Wire values are kept exactly as the portal database stores them.
type UserStatus string

const (
	UserStatusActive  UserStatus = "activo"
	UserStatusBlocked UserStatus = "bloqueado"
)

// Valid reports whether the status is one of the known values.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// User is the domain model for portal accounts.
type User struct {
	ID           string
	Nombre       string
	Apellidos    string
	Email        string
	Telefono     string
	Username     string
	PasswordHash string
	Rol          Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName joins first and last names for client presentation.
func (u *User) DisplayName() string {
	if u.Apellidos == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellidos
}
