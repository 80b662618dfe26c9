package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
	"phone8ez/ports"
)

// uniqueViolation is the Postgres error code for a duplicate key
const uniqueViolation = "23505"

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// GetByEmail retrieves a user by email
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email core.Email) (*account.User, error) {
	var user account.User
	err := r.db.GetContext(ctx, &user, `
		SELECT email, name, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrUserNotFound, email)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Ensure inserts the user if missing and returns the stored row
func (r *UserRepositoryImpl) Ensure(ctx context.Context, email core.Email, role account.Role) (*account.User, error) {
	user := account.User{Email: email, Role: role}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (email, name, role, created_at, updated_at)
		VALUES (:email, :name, :role, NOW(), NOW())
		ON CONFLICT (email) DO NOTHING
	`, user)

	if err != nil && !isUniqueViolation(err) {
		return nil, err
	}

	return r.GetByEmail(ctx, email)
}

// SetRole changes the stored role of a user
func (r *UserRepositoryImpl) SetRole(ctx context.Context, email core.Email, role account.Role) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE email = $1
	`, email, role)
	if err != nil {
		return err
	}
	return requireRow(res, core.ErrUserNotFound, email.String())
}

// List returns all users
func (r *UserRepositoryImpl) List(ctx context.Context) ([]*account.User, error) {
	var users []*account.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT email, name, role, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`)
	return users, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// requireRow turns an update that touched nothing into a not-found error
func requireRow(res sql.Result, notFound error, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, key)
	}
	return nil
}
