// Package models defines the core data structures for users and contacts.
package models

// User represents an authenticated account as returned by the auth endpoints.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Name is the display name chosen at registration.
	Name string `json:"name"`
	// Email is the login email, unique per account.
	Email string `json:"email"`
}

// Contact is a single directory record. ID is opaque and server-assigned;
// clients never invent or rewrite it.
type Contact struct {
	// ID is the unique identifier for the contact.
	ID string `json:"id"`
	// FirstName is required.
	FirstName string `json:"first_name"`
	// MiddleName is optional.
	MiddleName string `json:"middle_name"`
	// LastName is required.
	LastName string `json:"last_name"`
	// Address is the postal address.
	Address string `json:"address"`
	// Email is the contact's email address.
	Email string `json:"email"`
	// PhoneNumber1 is the primary phone number, required.
	PhoneNumber1 string `json:"phone_number_1"`
	// PhoneNumber2 is an optional secondary phone number.
	PhoneNumber2 string `json:"phone_number_2"`
}

// ContactFields is the writable field set of a contact, sent on create and
// update. The server assigns the ID.
type ContactFields struct {
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name"`
	Address      string `json:"address"`
	Email        string `json:"email"`
	PhoneNumber1 string `json:"phone_number_1"`
	PhoneNumber2 string `json:"phone_number_2"`
}

// Missing returns the names of required fields that are empty, in a stable
// order. First name, last name and the primary phone are required; everything
// else is optional.
func (f ContactFields) Missing() []string {
	var missing []string
	if f.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if f.LastName == "" {
		missing = append(missing, "last_name")
	}
	if f.PhoneNumber1 == "" {
		missing = append(missing, "phone_number_1")
	}
	return missing
}
