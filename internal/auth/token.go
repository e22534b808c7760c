package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/americas-iot/sims-portal/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens. Tokens are
// stateless: nothing is persisted server-side, validity is fully determined
// by signature, expiry and a live re-check of the subject's record.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload. Role and status claims are a snapshot at
// issuance time; the verifier re-fetches the user record before trusting them.
type Claims struct {
	SubjectID string      `json:"id"`
	Username  string      `json:"username"`
	Rol       domain.Role `json:"rol"`
	jwt.RegisteredClaims
}

// Generate builds and signs a JWT for the user.
func (tm *TokenManager) Generate(user *domain.User) (string, time.Time, error) {
	return tm.GenerateExpiring(user, tm.ttl)
}

// GenerateExpiring signs a JWT with an explicit lifetime.
func (tm *TokenManager) GenerateExpiring(user *domain.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		SubjectID: user.ID,
		Username:  user.Username,
		Rol:       user.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates signature and expiry, returning the embedded claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
