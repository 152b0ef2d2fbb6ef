package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.PasswordHash),
	)
	if err != nil && strings.Contains(err.Error(), "users_email_key") {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.PasswordHash),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, full_name, password_hash, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, full_name, password_hash, created_at, updated_at
FROM users
WHERE email = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var fullName sql.NullString
	var passwordHash sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&passwordHash,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if fullName.Valid {
		user.FullName = fullName.String
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
