// Package http provides HTTP handlers for contact directory operations.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/atarasov/contactbook/internal/middleware"
	"github.com/atarasov/contactbook/internal/models"
	"github.com/atarasov/contactbook/internal/repository"
)

// ContactsService defines the interface for contact directory operations
// required by the ContactsHandler.
type ContactsService interface {
	// List returns one page of the user's contacts; page is 1-based.
	List(ctx context.Context, userID int64, page, limit int) ([]models.Contact, error)
	// Get returns a single contact owned by the user.
	Get(ctx context.Context, userID int64, id string) (*models.Contact, error)
	// Create persists a new contact and returns it with the assigned id.
	Create(ctx context.Context, userID int64, f models.ContactFields) (*models.Contact, error)
	// Update replaces a contact's fields wholesale and returns the stored state.
	Update(ctx context.Context, userID int64, id string, f models.ContactFields) (*models.Contact, error)
	// Delete removes a contact from the user's directory.
	Delete(ctx context.Context, userID int64, id string) error
}

// ContactsHandler handles HTTP requests for contact CRUD.
type ContactsHandler struct {
	ContactsService ContactsService
}

// List handles GET /api/contacts?page=&limit=.
// It responds with a JSON array of the user's contacts.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	contacts, err := h.ContactsService.List(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch contacts")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// Get handles GET /api/contacts/{id}.
func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	contact, err := h.ContactsService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch contact")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Create handles POST /api/contacts.
// It expects the full writable field set and responds with the created
// contact, including the server-assigned id.
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var fields models.ContactFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := fields.Missing(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	contact, err := h.ContactsService.Create(r.Context(), userID, fields)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// Update handles PUT /api/contacts/{id}, a full replace of the record.
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var fields models.ContactFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := fields.Missing(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	contact, err := h.ContactsService.Update(r.Context(), userID, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update contact")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/{id}.
// On success it responds with an empty JSON object.
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.ContactsService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{})
}
