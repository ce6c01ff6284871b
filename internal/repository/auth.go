// Package repository provides persistence implementations for the contacts service.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/atarasov/contactbook/internal/models"
)

var (
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// UserRecord is a user row including the password hash, which never leaves
// the service layer.
type UserRecord struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

// PostgresAuthRepository implements user persistence using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateUser inserts a new user row. Returns ErrEmailTaken if the email is
// already registered.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, name, email, passwordHash string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)`,
		name, email, passwordHash,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrEmailTaken
	}
	return err
}

// GetUserByEmail fetches the user row matching the given email.
// Returns ErrUserNotFound if no such user exists.
func (r *PostgresAuthRepository) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var rec UserRecord
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetUserByID fetches the public user fields for the given id.
// Returns ErrUserNotFound if no such user exists.
func (r *PostgresAuthRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, name, email FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
