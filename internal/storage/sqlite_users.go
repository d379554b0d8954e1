package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/tintrack/internal/models"
)

func (s *SQLiteStore) CreateUser(u *models.User) error {
	result, err := s.db.Exec(`
		INSERT INTO users (name, email, date_of_birth, password_hash, user_salt, ranking, member_since)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.DateOfBirth.UTC().Format("2006-01-02"),
		u.PasswordHash, u.UserSalt, string(u.Ranking), formatTime(u.MemberSince))
	if err != nil {
		return mapSQLiteErr(err)
	}

	u.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) GetUser(id int64) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, email, date_of_birth, password_hash, user_salt, ranking, member_since
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, email, date_of_birth, password_hash, user_salt, ranking, member_since
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var dob, memberSince, ranking string

	err := row.Scan(&u.ID, &u.Name, &u.Email, &dob, &u.PasswordHash, &u.UserSalt, &ranking, &memberSince)
	if err != nil {
		return models.User{}, mapSQLiteErr(err)
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

func (s *SQLiteStore) RecordToken(t *models.IssuedToken) error {
	result, err := s.db.Exec(`
		INSERT INTO issued_tokens (jti, token_type, user_id, revoked, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.Jti, t.TokenType, t.UserID, t.Revoked, formatTime(t.ExpiresAt))
	if err != nil {
		return mapSQLiteErr(err)
	}

	t.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) GetToken(jti string) (models.IssuedToken, error) {
	row := s.db.QueryRow(`
		SELECT id, jti, token_type, user_id, revoked, expires_at
		FROM issued_tokens WHERE jti = ?`, jti)

	var t models.IssuedToken
	var expires string

	err := row.Scan(&t.ID, &t.Jti, &t.TokenType, &t.UserID, &t.Revoked, &expires)
	if err != nil {
		return models.IssuedToken{}, mapSQLiteErr(err)
	}

	t.ExpiresAt, err = parseTime(expires)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}

	return t, nil
}

func (s *SQLiteStore) RevokeToken(jti string, userID int64) error {
	result, err := s.db.Exec(`
		UPDATE issued_tokens SET revoked = 1 WHERE jti = ? AND user_id = ?`,
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

func (s *SQLiteStore) PruneTokens(now time.Time) (int, error) {
	result, err := s.db.Exec(`DELETE FROM issued_tokens WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}
