package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

// ParseID parses a string into an ID, rejecting blank input
func ParseID(s string) (ID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("id cannot be empty")
	}
	return ID(s), nil
}

// Email identifies a principal across the identity provider and the persistence layer
type Email string

// NormalizeEmail lowercases and trims an address so map keys and table keys agree
func NormalizeEmail(s string) Email {
	return Email(strings.ToLower(strings.TrimSpace(s)))
}

func (e Email) String() string { return string(e) }
