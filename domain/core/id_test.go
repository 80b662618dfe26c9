package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if !ID("   ").IsEmpty() {
		t.Error("Expected blank ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input    string
		expected ID
		hasError bool
	}{
		{"valid-id", ID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Admin@Phone8ez.KR "); got != "admin@phone8ez.kr" {
		t.Errorf("Expected normalized email, got %q", got)
	}
}

func TestNotFoundWrapping(t *testing.T) {
	err := NewNotFoundError("dataset", "abc")
	if !IsNotFoundError(err) {
		t.Error("Expected wrapped error to match ErrNotFound")
	}
	if !errors.Is(ErrDatasetNotFound, ErrNotFound) {
		t.Error("Expected ErrDatasetNotFound to wrap ErrNotFound")
	}
	if IsValidationError(err) {
		t.Error("Not found error must not be a validation error")
	}
}
