package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/americas-iot/sims-portal/internal/auth"
	"github.com/americas-iot/sims-portal/internal/config"
	"github.com/americas-iot/sims-portal/internal/domain"
	"github.com/americas-iot/sims-portal/internal/events"
	"github.com/americas-iot/sims-portal/pkg/util"
)

// AuthService coordinates the login flow: credential validation and token
// issuance. Verification lives in the auth gate pipeline.
type AuthService struct {
	users      UserSource
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
}

// UserSource is the credential store contract the login flow needs.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users UserSource, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		dispatcher: dispatcher,
	}
}

// Login validates credentials and issues a signed token. Exactly one of
// username/email must be set. Resolution order is fixed: identity lookup,
// blocked-status check, then password comparison. Unknown identifier and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, email, password string) (*domain.User, string, time.Time, error) {
	if (username == "" && email == "") || (username != "" && email != "") || password == "" {
		return s.reject(ctx, username, util.NewMissingCredentials("Username o email, y password son requeridos"))
	}

	var (
		user *domain.User
		err  error
	)
	if username != "" {
		user, err = s.users.GetByUsername(ctx, username)
	} else {
		user, err = s.users.GetByEmail(ctx, email)
	}
	if err != nil {
		if err == pgx.ErrNoRows {
			return s.reject(ctx, username, util.NewInvalidCredentials("Credenciales inválidas"))
		}
		return nil, "", time.Time{}, util.MapError(err)
	}

	if user.Status == domain.UserStatusBlocked {
		return s.reject(ctx, user.Username, util.NewAccountBlocked("Usuario bloqueado. Contacte al administrador"))
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return s.reject(ctx, user.Username, util.NewInvalidCredentials("Credenciales inválidas"))
	}

	token, expiresAt, err := s.tokenMgr.Generate(user)
	if err != nil {
		return nil, "", time.Time{}, util.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventLoginSucceeded,
		SubjectID: user.ID,
		Username:  user.Username,
	})
	return user, token, expiresAt, nil
}

// Logout no-ops server-side: the token model is stateless, the client drops
// its session regardless of this call's outcome.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for gate wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) reject(ctx context.Context, username string, err error) (*domain.User, string, time.Time, error) {
	domainErr := util.ToDomainError(err)
	s.publish(ctx, events.Event{
		Type:     events.EventLoginRejected,
		Username: username,
		Payload:  events.LoginRejectedPayload{Code: domainErr.Code},
	})
	return nil, "", time.Time{}, err
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
