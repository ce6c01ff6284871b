// Package ux declares the user-facing capabilities the client core consumes:
// outcome notifications and destructive-action confirmation. The shell wires
// in console implementations; tests wire in fakes.
package ux

// Level classifies a notification.
type Level string

const (
	// LevelSuccess marks an operation that completed as requested.
	LevelSuccess Level = "success"
	// LevelError marks a failed operation.
	LevelError Level = "error"
)

// Notifier delivers a single outcome message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// Confirmer gates destructive actions behind a blocking yes/no prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a plain function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }
