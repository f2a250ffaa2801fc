package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLStore is a Store backed by the users table created by the db package
// migrations. It works with both the "postgres" and "sqlite" drivers.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// rebind turns $N placeholders into ?N for SQLite.
func (s *SQLStore) rebind(q string) string {
	if s.driver == "sqlite" {
		return strings.ReplaceAll(q, "$", "?")
	}
	return q
}

func (s *SQLStore) Get(ctx context.Context, username string) (*User, error) {
	const q = `SELECT username, password_hash, role FROM users WHERE username = $1`
	return s.queryUser(ctx, q, username)
}

func (s *SQLStore) Exists(ctx context.Context, username string) (bool, error) {
	const q = `SELECT 1 FROM users WHERE username = $1`
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(q), username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

func (s *SQLStore) Upsert(ctx context.Context, username, passwordHash string) (*User, error) {
	const q = `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash, updated_at = CURRENT_TIMESTAMP
		RETURNING username, password_hash, role
	`
	return s.queryUser(ctx, q, username, passwordHash, string(RoleDefault))
}

func (s *SQLStore) SetRole(ctx context.Context, username string, role Role) (*User, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, '', $2)
		ON CONFLICT (username) DO UPDATE
		SET role = excluded.role, updated_at = CURRENT_TIMESTAMP
		RETURNING username, password_hash, role
	`
	return s.queryUser(ctx, q, username, string(role))
}

func (s *SQLStore) queryUser(ctx context.Context, q string, args ...any) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, s.rebind(q), args...).Scan(&u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

var _ Store = (*SQLStore)(nil)
