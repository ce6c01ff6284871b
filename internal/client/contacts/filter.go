package contacts

import (
	"strings"

	"github.com/atarasov/contactbook/internal/models"
)

// Filter narrows contacts to those whose first name, last name or email
// contains query, case-insensitively. An empty query returns the input
// unchanged. The input slice is never mutated; re-filtering must always
// start from the canonical collection.
func Filter(contacts []models.Contact, query string) []models.Contact {
	if query == "" {
		return contacts
	}
	q := strings.ToLower(query)
	matched := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			matched = append(matched, c)
		}
	}
	return matched
}
