package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atarasov/contactbook/internal/models"
)

// promptLine reads one trimmed line from stdin after printing the label.
func promptLine(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// promptLineDefault reads one line, keeping the current value when the input
// is empty. Used by the edit flow to prefill fields.
func promptLineDefault(scanner *bufio.Scanner, label, current string) string {
	fmt.Printf("%s [%s]: ", label, current)
	if !scanner.Scan() {
		return current
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return current
	}
	return line
}

// promptPassword reads a password without echoing it. Falls back to a plain
// line read when stdin is not a terminal (e.g. piped input in tests).
func promptPassword(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// promptContactFields collects the full writable field set for a new contact.
func promptContactFields(scanner *bufio.Scanner) models.ContactFields {
	return models.ContactFields{
		FirstName:    promptLine(scanner, "First name: "),
		MiddleName:   promptLine(scanner, "Middle name (optional): "),
		LastName:     promptLine(scanner, "Last name: "),
		Address:      promptLine(scanner, "Address: "),
		Email:        promptLine(scanner, "Email: "),
		PhoneNumber1: promptLine(scanner, "Primary phone: "),
		PhoneNumber2: promptLine(scanner, "Secondary phone (optional): "),
	}
}

// promptContactEdits collects the field set for an update, prefilled from
// the contact's current state.
func promptContactEdits(scanner *bufio.Scanner, c models.Contact) models.ContactFields {
	fmt.Println("Press Enter to keep the current value.")
	return models.ContactFields{
		FirstName:    promptLineDefault(scanner, "First name", c.FirstName),
		MiddleName:   promptLineDefault(scanner, "Middle name", c.MiddleName),
		LastName:     promptLineDefault(scanner, "Last name", c.LastName),
		Address:      promptLineDefault(scanner, "Address", c.Address),
		Email:        promptLineDefault(scanner, "Email", c.Email),
		PhoneNumber1: promptLineDefault(scanner, "Primary phone", c.PhoneNumber1),
		PhoneNumber2: promptLineDefault(scanner, "Secondary phone", c.PhoneNumber2),
	}
}

// printContacts renders the displayed collection as a table.
func printContacts(contacts []models.Contact) {
	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return
	}
	fmt.Printf("Your Total Contacts: %d\n", len(contacts))
	for _, c := range contacts {
		name := c.FirstName
		if c.MiddleName != "" {
			name += " " + c.MiddleName
		}
		name += " " + c.LastName
		fmt.Printf("ID: %s\nName: %s\nAddress: %s\nEmail: %s\nPhone: %s", c.ID, name, c.Address, c.Email, c.PhoneNumber1)
		if c.PhoneNumber2 != "" {
			fmt.Printf(" / %s", c.PhoneNumber2)
		}
		fmt.Println("\n---")
	}
}
