package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/storage"
)

const accessTokenType = "access"

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies access tokens. Every issued token is
// recorded by jti; a token whose record is missing or flagged revoked is
// rejected even if its signature still verifies.
type TokenManager struct {
	store  storage.Provider
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(store storage.Provider, secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a new access token for the user and records it.
func (m *TokenManager) Issue(user models.User, now time.Time) (string, error) {
	jti := uuid.NewString()
	expires := now.Add(m.ttl)

	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	record := models.IssuedToken{
		Jti:       jti,
		TokenType: accessTokenType,
		UserID:    user.ID,
		ExpiresAt: expires,
	}
	if err := m.store.RecordToken(&record); err != nil {
		return "", fmt.Errorf("failed to record token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates the token and checks it against the
// issued-token registry.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	record, err := m.store.GetToken(claims.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return Claims{}, ErrTokenRevoked
	}
	if err != nil {
		return Claims{}, err
	}
	if record.Revoked {
		return Claims{}, ErrTokenRevoked
	}

	return claims, nil
}

// Revoke invalidates the token with the given jti for the user.
func (m *TokenManager) Revoke(jti string, userID int64) error {
	return m.store.RevokeToken(jti, userID)
}

// Prune deletes expired token records and returns how many were removed.
func (m *TokenManager) Prune(now time.Time) (int, error) {
	return m.store.PruneTokens(now)
}
