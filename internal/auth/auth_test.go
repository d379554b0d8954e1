package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/storage"
)

func TestPasswordHashing(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("failed to generate salt: %v", err)
	}
	if salt == "" {
		t.Fatal("expected a non-empty salt")
	}

	other, err := GenerateSalt()
	if err != nil {
		t.Fatalf("failed to generate second salt: %v", err)
	}
	if salt == other {
		t.Error("expected salts to differ")
	}

	hash, err := HashPassword("hunter22!", salt)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !CheckPassword(hash, "hunter22!", salt) {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(hash, "hunter22!", other) {
		t.Error("expected wrong salt to fail")
	}
	if CheckPassword(hash, "wrong password", salt) {
		t.Error("expected wrong password to fail")
	}
}

func setupTokenManager(t *testing.T, ttl time.Duration) (storage.Provider, *TokenManager, models.User) {
	t.Helper()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user := models.User{
		Name:        "Token Tester",
		Email:       "token@example.com",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Ranking:     models.RankingStarter,
		MemberSince: time.Now().UTC(),
	}
	if err := store.CreateUser(&user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return store, NewTokenManager(store, "test-secret", ttl), user
}

func TestTokenIssueAndVerify(t *testing.T) {
	_, manager, user := setupTokenManager(t, time.Hour)

	token, err := manager.Issue(user, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected user id %d, got %d", user.ID, claims.UserID)
	}
	if claims.ID == "" {
		t.Error("expected a jti on the claims")
	}
}

func TestTokenRevocation(t *testing.T) {
	_, manager, user := setupTokenManager(t, time.Hour)

	token, err := manager.Issue(user, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}

	if err := manager.Revoke(claims.ID, user.ID); err != nil {
		t.Fatalf("failed to revoke token: %v", err)
	}

	if _, err := manager.Verify(token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	store, manager, user := setupTokenManager(t, time.Hour)

	token, err := manager.Issue(user, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	imposter := NewTokenManager(store, "other-secret", time.Hour)
	if _, err := imposter.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenExpiryAndPrune(t *testing.T) {
	_, manager, user := setupTokenManager(t, -time.Hour)

	// issued already expired
	token, err := manager.Issue(user, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := manager.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected expired token to be invalid, got %v", err)
	}

	pruned, err := manager.Prune(time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned record, got %d", pruned)
	}
}
