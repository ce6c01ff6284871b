// Package repository provides persistence implementations for the contacts service
// using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atarasov/contactbook/internal/models"
)

// ErrContactNotFound is returned when no contact matches the given id for the user.
var ErrContactNotFound = errors.New("contact not found")

// PostgresContactsRepository implements contact persistence against a PostgreSQL database.
type PostgresContactsRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresContactsRepository creates a new PostgresContactsRepository using
// the provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresContactsRepository(db *sql.DB) *PostgresContactsRepository {
	return &PostgresContactsRepository{DB: db}
}

// ListByUser fetches one page of contacts belonging to the given user,
// ordered by last then first name.
//
//	ctx:    context for cancellation and deadlines
//	userID: identifier of the owning user
//	limit:  page size
//	offset: number of rows to skip
//
// Returns a slice of models.Contact or an error if the query or scanning fails.
func (r *PostgresContactsRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, first_name, middle_name, last_name, address, email, phone_number_1, phone_number_2
		  FROM contacts WHERE user_id = $1 AND deleted = false
		 ORDER BY last_name, first_name
		 LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.MiddleName, &c.LastName,
			&c.Address, &c.Email, &c.PhoneNumber1, &c.PhoneNumber2); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetByID retrieves a single contact by id for the given user.
// Returns ErrContactNotFound if the contact does not exist or belongs to
// another user.
func (r *PostgresContactsRepository) GetByID(ctx context.Context, userID int64, id string) (*models.Contact, error) {
	var c models.Contact
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, first_name, middle_name, last_name, address, email, phone_number_1, phone_number_2
		  FROM contacts WHERE user_id = $1 AND id = $2 AND deleted = false
	`, userID, id).Scan(&c.ID, &c.FirstName, &c.MiddleName, &c.LastName,
		&c.Address, &c.Email, &c.PhoneNumber1, &c.PhoneNumber2)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contact row owned by the given user. The contact's ID
// must already be assigned.
func (r *PostgresContactsRepository) Create(ctx context.Context, userID int64, c models.Contact) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, first_name, middle_name, last_name, address, email, phone_number_1, phone_number_2)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, userID, c.FirstName, c.MiddleName, c.LastName, c.Address, c.Email, c.PhoneNumber1, c.PhoneNumber2)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// Update replaces all writable fields of the contact with the given id.
// Returns ErrContactNotFound if no live row matched.
func (r *PostgresContactsRepository) Update(ctx context.Context, userID int64, id string, f models.ContactFields) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE contacts
		   SET first_name = $3, middle_name = $4, last_name = $5, address = $6,
		       email = $7, phone_number_1 = $8, phone_number_2 = $9
		 WHERE user_id = $1 AND id = $2 AND deleted = false
	`, userID, id, f.FirstName, f.MiddleName, f.LastName, f.Address, f.Email, f.PhoneNumber1, f.PhoneNumber2)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContactNotFound
	}
	return nil
}

// SoftDelete marks the contact as deleted; the background cleaner purges it
// later. Returns ErrContactNotFound if no live row matched.
func (r *PostgresContactsRepository) SoftDelete(ctx context.Context, userID int64, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE contacts SET deleted = true, deleted_at = NOW()
		 WHERE user_id = $1 AND id = $2 AND deleted = false
	`, userID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContactNotFound
	}
	return nil
}
