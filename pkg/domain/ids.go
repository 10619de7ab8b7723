// Package domain holds shared domain primitives. Identifiers are typed UUIDs
// so cross-type assignment fails at compile time, and they are constructed via
// Parse functions at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "registrar/pkg/domain-errors"
)

// AccountID identifies a caller. It is opaque to the registration domain:
// equality is the only comparison the domain performs on it.
type AccountID uuid.UUID

// ParseAccountID constructs an AccountID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or the
// nil UUID; no other errors are expected.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id cannot be the nil UUID")
	}
	return AccountID(parsed), nil
}

// String returns the canonical UUID string form.
func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id AccountID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler so AccountID round-trips
// through JSON as its UUID string.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It applies the same
// validation as ParseAccountID.
func (id *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
