// Package values contains domain value objects that encapsulate
// primitive types with validation.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// GateID uniquely identifies one presubmit gate run.
type GateID struct {
	value uuid.UUID
}

// NewGateID creates a new random gate ID
func NewGateID() GateID {
	return GateID{value: uuid.New()}
}

// ParseGateID parses a string into a GateID
func ParseGateID(s string) (GateID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return GateID{}, fmt.Errorf("invalid gate ID: %w", err)
	}
	return GateID{value: id}, nil
}

// MustParseGateID parses a string or panics (for tests only)
func MustParseGateID(s string) GateID {
	id, err := ParseGateID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the string representation
func (g GateID) String() string {
	return g.value.String()
}

// IsZero returns true if this is the zero value
func (g GateID) IsZero() bool {
	return g.value == uuid.Nil
}

// Equals checks if two GateIDs are equal
func (g GateID) Equals(other GateID) bool {
	return g.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (g GateID) MarshalText() ([]byte, error) {
	return []byte(g.value.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *GateID) UnmarshalText(data []byte) error {
	id, err := ParseGateID(string(data))
	if err != nil {
		return err
	}
	*g = id
	return nil
}
