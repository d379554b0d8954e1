package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/tintrack/internal/models"
)

func (s *PostgresStore) CreateUser(u *models.User) error {
	err := s.db.QueryRow(`
		INSERT INTO users (name, email, date_of_birth, password_hash, user_salt, ranking, member_since)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		u.Name, u.Email, u.DateOfBirth.UTC().Format("2006-01-02"),
		u.PasswordHash, u.UserSalt, string(u.Ranking), formatTime(u.MemberSince)).Scan(&u.ID)
	return mapPostgresErr(err)
}

func (s *PostgresStore) GetUser(id int64) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, email, date_of_birth, password_hash, user_salt, ranking, member_since
		FROM users WHERE id = $1`, id)
	return scanPostgresUser(row)
}

func (s *PostgresStore) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, email, date_of_birth, password_hash, user_salt, ranking, member_since
		FROM users WHERE email = $1`, email)
	return scanPostgresUser(row)
}

func scanPostgresUser(row rowScanner) (models.User, error) {
	var u models.User
	var dob, memberSince, ranking string

	err := row.Scan(&u.ID, &u.Name, &u.Email, &dob, &u.PasswordHash, &u.UserSalt, &ranking, &memberSince)
	if err != nil {
		return models.User{}, mapPostgresErr(err)
	}

	u.Ranking = models.Ranking(ranking)
	u.DateOfBirth, err = time.Parse("2006-01-02", dob)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse date_of_birth: %w", err)
	}
	u.MemberSince, err = parseTime(memberSince)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse member_since: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) RecordToken(t *models.IssuedToken) error {
	err := s.db.QueryRow(`
		INSERT INTO issued_tokens (jti, token_type, user_id, revoked, expires_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		t.Jti, t.TokenType, t.UserID, t.Revoked, formatTime(t.ExpiresAt)).Scan(&t.ID)
	return mapPostgresErr(err)
}

func (s *PostgresStore) GetToken(jti string) (models.IssuedToken, error) {
	row := s.db.QueryRow(`
		SELECT id, jti, token_type, user_id, revoked, expires_at
		FROM issued_tokens WHERE jti = $1`, jti)

	var t models.IssuedToken
	var expires string

	err := row.Scan(&t.ID, &t.Jti, &t.TokenType, &t.UserID, &t.Revoked, &expires)
	if err != nil {
		return models.IssuedToken{}, mapPostgresErr(err)
	}

	t.ExpiresAt, err = parseTime(expires)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}

	return t, nil
}

func (s *PostgresStore) RevokeToken(jti string, userID int64) error {
	result, err := s.db.Exec(`
		UPDATE issued_tokens SET revoked = TRUE WHERE jti = $1 AND user_id = $2`,
		jti, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) PruneTokens(now time.Time) (int, error) {
	result, err := s.db.Exec(`DELETE FROM issued_tokens WHERE expires_at < $1`, formatTime(now))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}
