package telnet

import "github.com/google/uuid"

// ConnectionID is an opaque 128-bit identifier assigned at accept time, used
// for correlation (logs, metrics) only — never for security (spec.md §3).
type ConnectionID uuid.UUID

// NewConnectionID generates a fresh random connection identity.
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.New())
}

func (id ConnectionID) String() string {
	return uuid.UUID(id).String()
}
