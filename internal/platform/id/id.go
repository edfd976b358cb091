package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID yields random version 4 identifiers without dashes.
type UUID struct{}

func (UUID) New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
