package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Prefixes for generated IDs, one per entity.
const (
	PrefixUser       = "usr"
	PrefixHabit      = "hab"
	PrefixCompletion = "cmp"
)

// Generate creates a new unique ID in the format "<prefix>-<uuid>".
func Generate(prefix string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return fmt.Sprintf("%s-%s", prefix, id.String()), nil
}

// MustGenerate creates a new unique ID, panicking on error.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return id
}
