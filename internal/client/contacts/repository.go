// Package contacts keeps the client's in-memory contact collection in sync
// with the remote service across list, create, update and delete, and
// narrows it with a local search filter.
package contacts

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/atarasov/contactbook/internal/client/api"
	"github.com/atarasov/contactbook/internal/client/ux"
	"github.com/atarasov/contactbook/internal/models"
)

// ContactsAPI is the slice of the remote service the repository needs.
type ContactsAPI interface {
	ListContacts(ctx context.Context, token string) ([]models.Contact, error)
	GetContact(ctx context.Context, token, id string) (*models.Contact, error)
	CreateContact(ctx context.Context, token string, fields models.ContactFields) error
	UpdateContact(ctx context.Context, token, id string, fields models.ContactFields) error
	DeleteContact(ctx context.Context, token, id string) error
}

// CredentialSource yields the session's current bearer token.
type CredentialSource interface {
	Token() (string, bool)
}

// Repository owns two views over the same contact set: the canonical
// collection (last server-confirmed state) and the displayed collection
// (canonical, optionally narrowed by the search filter). The displayed
// collection is always a subset of canonical; canonical is only ever
// replaced wholesale by a list fetch or shrunk by a confirmed delete.
type Repository struct {
	api     ContactsAPI
	creds   CredentialSource
	notify  ux.Notifier
	confirm ux.Confirmer
	log     *zap.Logger

	mu        sync.Mutex
	canonical []models.Contact
	displayed []models.Contact
	// generation is bumped by DiscardAll so that responses arriving after
	// logout are ignored rather than applied to the new session's state.
	generation uint64
	subs       []func()
}

// NewRepository constructs a Repository. log may be nil.
func NewRepository(apiClient ContactsAPI, creds CredentialSource, notify ux.Notifier, confirm ux.Confirmer, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{api: apiClient, creds: creds, notify: notify, confirm: confirm, log: log}
}

// Subscribe registers fn to run after every collection change and returns a
// function that removes the subscription.
func (r *Repository) Subscribe(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
	i := len(r.subs) - 1
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.subs[i] = nil
	}
}

func (r *Repository) emit() {
	r.mu.Lock()
	subs := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	r.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Contacts returns a copy of the displayed collection.
func (r *Repository) Contacts() []models.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Contact, len(r.displayed))
	copy(out, r.displayed)
	return out
}

// token enforces the bearer-gate: every operation needs a credential before
// any network I/O. The repository surfaces the failure and leaves navigation
// to the caller.
func (r *Repository) token() (string, uint64, error) {
	token, ok := r.creds.Token()
	if !ok {
		r.notify.Notify(ux.LevelError, "You need to login first.")
		return "", 0, api.ErrUnauthorized
	}
	r.mu.Lock()
	gen := r.generation
	r.mu.Unlock()
	return token, gen, nil
}

// stale reports whether the collection was discarded while a response was in
// flight; stale results are dropped, never applied.
func (r *Repository) stale(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation != gen
}

// List fetches the first page from the remote service. On success the
// canonical collection is replaced wholesale and the displayed collection is
// reset to equal it; on failure both are left untouched.
func (r *Repository) List(ctx context.Context) error {
	token, gen, err := r.token()
	if err != nil {
		return err
	}

	fetched, err := r.api.ListContacts(ctx, token)
	if err != nil {
		r.notify.Notify(ux.LevelError, failureMessage(err, "Error occurred while fetching contacts."))
		return err
	}
	if r.stale(gen) {
		return nil
	}

	snapshot := make([]models.Contact, len(fetched))
	copy(snapshot, fetched)
	r.mu.Lock()
	r.canonical = snapshot
	r.displayed = snapshot
	r.mu.Unlock()
	r.emit()
	return nil
}

// Get fetches a single contact, used to prefill the edit form.
func (r *Repository) Get(ctx context.Context, id string) (*models.Contact, error) {
	token, _, err := r.token()
	if err != nil {
		return nil, err
	}

	contact, err := r.api.GetContact(ctx, token, id)
	if err != nil {
		r.notify.Notify(ux.LevelError, failureMessage(err, "Error fetching contact details"))
		return nil, err
	}
	return contact, nil
}

// Create sends the full field set to the remote service. The collection is
// not touched: the caller re-fetches via List rather than trusting the
// create response to echo the stored record.
func (r *Repository) Create(ctx context.Context, fields models.ContactFields) error {
	if missing := fields.Missing(); len(missing) > 0 {
		err := &api.ValidationError{Fields: missing}
		r.notify.Notify(ux.LevelError, err.Error())
		return err
	}

	token, _, err := r.token()
	if err != nil {
		return err
	}

	if err := r.api.CreateContact(ctx, token, fields); err != nil {
		r.notify.Notify(ux.LevelError, failureMessage(err, "Error creating contact. Please try again."))
		return err
	}

	r.notify.Notify(ux.LevelSuccess,
		"Contact for "+fields.FirstName+" "+fields.LastName+" created successfully.")
	return nil
}

// Update sends a full replace of the record. On success the canonical entry
// is updated in place, preserving its position; on failure the collection is
// untouched.
func (r *Repository) Update(ctx context.Context, id string, fields models.ContactFields) error {
	if missing := fields.Missing(); len(missing) > 0 {
		err := &api.ValidationError{Fields: missing}
		r.notify.Notify(ux.LevelError, err.Error())
		return err
	}

	token, gen, err := r.token()
	if err != nil {
		return err
	}

	if err := r.api.UpdateContact(ctx, token, id, fields); err != nil {
		r.notify.Notify(ux.LevelError, failureMessage(err, "Error updating contact"))
		return err
	}
	if !r.stale(gen) {
		updated := models.Contact{
			ID:           id,
			FirstName:    fields.FirstName,
			MiddleName:   fields.MiddleName,
			LastName:     fields.LastName,
			Address:      fields.Address,
			Email:        fields.Email,
			PhoneNumber1: fields.PhoneNumber1,
			PhoneNumber2: fields.PhoneNumber2,
		}
		r.mu.Lock()
		replaceByID(r.canonical, updated)
		replaceByID(r.displayed, updated)
		r.mu.Unlock()
		r.emit()
	}

	r.notify.Notify(ux.LevelSuccess,
		"Updated contact for "+fields.FirstName+" "+fields.LastName)
	return nil
}

// Delete removes the record after an explicit confirmation. On success the
// entry is removed from both canonical and displayed by identity match; a
// declined confirmation is a quiet no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if !r.confirm.Confirm("Are you sure you want to delete this contact?") {
		return nil
	}

	token, gen, err := r.token()
	if err != nil {
		return err
	}

	if err := r.api.DeleteContact(ctx, token, id); err != nil {
		r.notify.Notify(ux.LevelError, failureMessage(err, "Error occurred while deleting contact."))
		return err
	}
	if !r.stale(gen) {
		r.mu.Lock()
		r.canonical = removeByID(r.canonical, id)
		r.displayed = removeByID(r.displayed, id)
		r.mu.Unlock()
		r.emit()
	}

	r.notify.Notify(ux.LevelSuccess, "Contact deleted successfully.")
	return nil
}

// Search narrows the displayed collection. Filtering always starts from
// canonical, so a shorter query after a longer one widens the result.
func (r *Repository) Search(query string) {
	r.mu.Lock()
	r.displayed = Filter(r.canonical, query)
	r.mu.Unlock()
	r.emit()
}

// DiscardAll unconditionally clears both collections and invalidates every
// in-flight response. Invoked by the session manager on logout; no network
// call is made.
func (r *Repository) DiscardAll() {
	r.mu.Lock()
	r.generation++
	r.canonical = nil
	r.displayed = nil
	r.mu.Unlock()
	r.emit()
}

// replaceByID swaps the entry matching c.ID in place, keeping order.
func replaceByID(contacts []models.Contact, c models.Contact) {
	for i := range contacts {
		if contacts[i].ID == c.ID {
			contacts[i] = c
			return
		}
	}
}

// removeByID drops the entry with the given id, keeping the others in order.
// Removing an id that is not present is a no-op.
func removeByID(contacts []models.Contact, id string) []models.Contact {
	for i := range contacts {
		if contacts[i].ID == id {
			return append(contacts[:i:i], contacts[i+1:]...)
		}
	}
	return contacts
}

// failureMessage maps an operation error to what the user sees: server
// rejections pass through verbatim, transport failures get the generic line.
func failureMessage(err error, generic string) string {
	var rejected *api.RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return generic
}
