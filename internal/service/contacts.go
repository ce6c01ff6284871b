// Package service provides contact directory business logic,
// delegating persistence to a ContactsRepository.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/atarasov/contactbook/internal/models"
)

// ContactsRepository defines the persistence operations required by the
// contacts service.
type ContactsRepository interface {
	// ListByUser fetches one page of the user's contacts.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error)
	// GetByID retrieves one contact owned by the user.
	GetByID(ctx context.Context, userID int64, id string) (*models.Contact, error)
	// Create inserts a new contact row with a pre-assigned id.
	Create(ctx context.Context, userID int64, c models.Contact) error
	// Update replaces all writable fields of a contact.
	Update(ctx context.Context, userID int64, id string, f models.ContactFields) error
	// SoftDelete marks a contact as deleted.
	SoftDelete(ctx context.Context, userID int64, id string) error
}

// ContactsService implements contact directory operations by delegating
// to a ContactsRepository.
type ContactsService struct {
	repo ContactsRepository
}

// NewContactsService constructs a new ContactsService using the provided repository.
func NewContactsService(repo ContactsRepository) *ContactsService {
	return &ContactsService{repo: repo}
}

// List returns one page of the user's contacts. page is 1-based.
func (s *ContactsService) List(ctx context.Context, userID int64, page, limit int) ([]models.Contact, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.ListByUser(ctx, userID, limit, (page-1)*limit)
}

// Get returns a single contact owned by the user.
func (s *ContactsService) Get(ctx context.Context, userID int64, id string) (*models.Contact, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Create assigns a fresh id to the record and persists it.
// Returns the stored contact.
func (s *ContactsService) Create(ctx context.Context, userID int64, f models.ContactFields) (*models.Contact, error) {
	c := models.Contact{
		ID:           uuid.NewString(),
		FirstName:    f.FirstName,
		MiddleName:   f.MiddleName,
		LastName:     f.LastName,
		Address:      f.Address,
		Email:        f.Email,
		PhoneNumber1: f.PhoneNumber1,
		PhoneNumber2: f.PhoneNumber2,
	}
	if err := s.repo.Create(ctx, userID, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces the contact's fields wholesale and returns the stored state.
func (s *ContactsService) Update(ctx context.Context, userID int64, id string, f models.ContactFields) (*models.Contact, error) {
	if err := s.repo.Update(ctx, userID, id, f); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

// Delete removes the contact from the user's directory.
func (s *ContactsService) Delete(ctx context.Context, userID int64, id string) error {
	return s.repo.SoftDelete(ctx, userID, id)
}
