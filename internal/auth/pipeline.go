package auth

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/americas-iot/sims-portal/internal/domain"
	apperrors "github.com/americas-iot/sims-portal/pkg/util"
)

// UserSource is the read contract the verifier needs from the credential store.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// verification carries state between pipeline stages.
type verification struct {
	raw    string
	claims *Claims
	user   *domain.User
}

// stage is one named step of the verification pipeline. A stage either
// advances the verification or rejects it with a coded domain error.
type stage struct {
	name string
	run  func(ctx context.Context, v *verification) error
}

// Verifier validates a raw token and re-fetches the subject. The user record,
// not the token, is authoritative for current role and status: blocking a
// user takes effect on the very next verification, token claims are only a
// snapshot from issuance time.
type Verifier struct {
	tokens *TokenManager
	users  UserSource
	stages []stage
}

// NewVerifier builds the ordered pipeline.
func NewVerifier(tokens *TokenManager, users UserSource) *Verifier {
	v := &Verifier{tokens: tokens, users: users}
	v.stages = []stage{
		{name: "token-parse", run: v.parseToken},
		{name: "subject-fetch", run: v.fetchSubject},
		{name: "status-check", run: v.checkStatus},
	}
	return v
}

// Verify runs every stage in order, short-circuiting on the first rejection.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*domain.User, *Claims, error) {
	state := &verification{raw: rawToken}
	for _, st := range v.stages {
		if err := st.run(ctx, state); err != nil {
			return nil, nil, err
		}
	}
	return state.user, state.claims, nil
}

func (v *Verifier) parseToken(_ context.Context, state *verification) error {
	claims, err := v.tokens.Parse(state.raw)
	if err != nil {
		return apperrors.NewInvalidToken("Token inválido o expirado")
	}
	state.claims = claims
	return nil
}

func (v *Verifier) fetchSubject(ctx context.Context, state *verification) error {
	user, err := v.users.GetByID(ctx, state.claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewSubjectNotFound("Usuario no encontrado")
		}
		return apperrors.MapError(err)
	}
	state.user = user
	return nil
}

func (v *Verifier) checkStatus(_ context.Context, state *verification) error {
	if state.user.Status == domain.UserStatusBlocked {
		return apperrors.NewAccountBlocked("Usuario bloqueado")
	}
	return nil
}
