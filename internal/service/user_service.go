package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/americas-iot/sims-portal/internal/auth"
	"github.com/americas-iot/sims-portal/internal/config"
	"github.com/americas-iot/sims-portal/internal/domain"
	"github.com/americas-iot/sims-portal/internal/events"
	"github.com/americas-iot/sims-portal/internal/repository"
	"github.com/americas-iot/sims-portal/pkg/util"
)

// UserService implements administrative provisioning and maintenance of
// portal accounts.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// HasNextPage reports whether pages remain after this one.
func (p UserPage) HasNextPage() bool { return p.Page < p.TotalPages }

// HasPrevPage reports whether pages precede this one.
func (p UserPage) HasPrevPage() bool { return p.Page > 1 }

// List returns a page of users ordered by creation time, newest first.
func (s *UserService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}

	users, total, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, util.MapError(err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get fetches a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, util.NewSubjectNotFound("Usuario no encontrado")
		}
		return nil, util.MapError(err)
	}
	return user, nil
}

// CreateInput carries provisioning fields. Rol and Status fall back to the
// portal defaults when empty.
type CreateInput struct {
	Nombre    string
	Apellidos string
	Email     string
	Telefono  string
	Username  string
	Password  string
	Rol       domain.Role
	Status    domain.UserStatus
}

// Create provisions a new account with a hashed password.
func (s *UserService) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	if in.Nombre == "" || in.Apellidos == "" || in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, util.NewValidationError("Todos los campos obligatorios deben ser proporcionados", nil)
	}
	if in.Rol == "" {
		in.Rol = domain.RoleUser
	}
	if in.Status == "" {
		in.Status = domain.UserStatusActive
	}
	if !in.Rol.Valid() {
		return nil, util.NewValidationError("El rol debe ser admin o user", nil)
	}
	if !in.Status.Valid() {
		return nil, util.NewValidationError("El status debe ser activo o bloqueado", nil)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, util.MapError(err)
	}

	user := &domain.User{
		Nombre:       in.Nombre,
		Apellidos:    in.Apellidos,
		Email:        in.Email,
		Telefono:     in.Telefono,
		Username:     in.Username,
		PasswordHash: hash,
		Rol:          in.Rol,
		Status:       in.Status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewValidationError("El email o username ya está registrado", nil)
		}
		return nil, util.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserCreated,
		SubjectID: user.ID,
		Username:  user.Username,
	})
	return user, nil
}

// UpdateInput carries mutable fields; nil pointers leave the field untouched.
type UpdateInput struct {
	Nombre    *string
	Apellidos *string
	Email     *string
	Telefono  *string
	Username  *string
	Password  *string
	Rol       *domain.Role
	Status    *domain.UserStatus
}

// Update applies a partial edit, rehashing the password when one is supplied.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := user.Status

	if in.Nombre != nil {
		user.Nombre = *in.Nombre
	}
	if in.Apellidos != nil {
		user.Apellidos = *in.Apellidos
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Telefono != nil {
		user.Telefono = *in.Telefono
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Rol != nil {
		if !in.Rol.Valid() {
			return nil, util.NewValidationError("El rol debe ser admin o user", nil)
		}
		user.Rol = *in.Rol
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, util.NewValidationError("El status debe ser activo o bloqueado", nil)
		}
		user.Status = *in.Status
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, util.MapError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewValidationError("El email o username ya está registrado", nil)
		}
		if err == pgx.ErrNoRows {
			return nil, util.NewSubjectNotFound("Usuario no encontrado")
		}
		return nil, util.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserUpdated,
		SubjectID: user.ID,
		Username:  user.Username,
	})
	if oldStatus != user.Status {
		s.publish(ctx, events.Event{
			Type:      events.EventUserStatusChanged,
			SubjectID: user.ID,
			Username:  user.Username,
			Payload:   events.UserStatusChangedPayload{OldStatus: oldStatus, NewStatus: user.Status},
		})
	}
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return util.NewSubjectNotFound("Usuario no encontrado")
		}
		return util.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserDeleted,
		SubjectID: id,
	})
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
