package auth

import (
	"context"
	"testing"
	"time"

	"github.com/americas-iot/sims-portal/internal/domain"
	"github.com/americas-iot/sims-portal/internal/repository"
	"github.com/americas-iot/sims-portal/pkg/util"
)

func seedVerifier(t *testing.T) (*Verifier, *TokenManager, repository.UserRepository, *domain.User) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	user := &domain.User{
		Nombre:    "Test",
		Apellidos: "Admin",
		Email:     "test.admin@americaiot.com",
		Username:  "test_admin",
		Rol:       domain.RoleAdmin,
		Status:    domain.UserStatusActive,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	tm := NewTokenManager("secret", time.Hour)
	return NewVerifier(tm, users), tm, users, user
}

func TestVerifier_ValidToken(t *testing.T) {
	verifier, tm, _, user := seedVerifier(t)

	token, _, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	got, claims, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("user ID = %q, want %q", got.ID, user.ID)
	}
	if claims.Username != "test_admin" {
		t.Fatalf("claims username = %q", claims.Username)
	}
}

func TestVerifier_BlockedAfterIssue(t *testing.T) {
	verifier, tm, users, user := seedVerifier(t)

	token, _, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Block the user after the token is already out in the wild. The token
	// still has a valid signature and has not expired, yet the very next
	// verification must be stopped by the status re-check.
	user.Status = domain.UserStatusBlocked
	if err := users.Update(context.Background(), user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, _, err = verifier.Verify(context.Background(), token)
	if !util.HasCode(err, util.CodeAccountBlocked) {
		t.Fatalf("err = %v, want %s", err, util.CodeAccountBlocked)
	}
}

func TestVerifier_SubjectDeleted(t *testing.T) {
	verifier, tm, users, user := seedVerifier(t)

	token, _, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := users.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, _, err = verifier.Verify(context.Background(), token)
	if !util.HasCode(err, util.CodeSubjectNotFound) {
		t.Fatalf("err = %v, want %s", err, util.CodeSubjectNotFound)
	}
}

func TestVerifier_ExpiredToken(t *testing.T) {
	verifier, tm, _, user := seedVerifier(t)

	token, _, err := tm.GenerateExpiring(user, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateExpiring: %v", err)
	}

	_, _, err = verifier.Verify(context.Background(), token)
	if !util.HasCode(err, util.CodeInvalidOrExpiredToken) {
		t.Fatalf("err = %v, want %s", err, util.CodeInvalidOrExpiredToken)
	}
}

func TestVerifier_MalformedToken(t *testing.T) {
	verifier, _, _, _ := seedVerifier(t)

	_, _, err := verifier.Verify(context.Background(), "garbage")
	if !util.HasCode(err, util.CodeInvalidOrExpiredToken) {
		t.Fatalf("err = %v, want %s", err, util.CodeInvalidOrExpiredToken)
	}
}
