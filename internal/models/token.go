package models

import "time"

// IssuedToken records a JWT we handed out. Tokens we have no record of
// are treated as revoked, so the table doubles as an allow-list and a
// blacklist.
type IssuedToken struct {
	ID        int64     `json:"id"`
	Jti       string    `json:"jti"`
	TokenType string    `json:"token_type"`
	UserID    int64     `json:"user_id"`
	Revoked   bool      `json:"revoked"`
	ExpiresAt time.Time `json:"expires_at"`
}
