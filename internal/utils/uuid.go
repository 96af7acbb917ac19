package utils

import "github.com/google/uuid"

// NewID returns a new time-ordered UUIDv7 string for entity identifiers,
// falling back to a random v4 if v7 generation fails.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
