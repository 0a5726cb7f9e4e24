package domain

import (
	"fmt"
	"strings"
)

// RecordDelimiter separates the fields of a persisted record.
const RecordDelimiter = ","

// Record is one persisted credential: a username and its obfuscated password.
type Record struct {
	Username           string
	ObfuscatedPassword string
}

// ValidateUsername reports whether name can be stored as the first field of a record.
// Usernames must be non-empty and must not contain the delimiter or line breaks.
func ValidateUsername(name string) error {
	if name == "" {
		return fmt.Errorf("%w: username is empty", ErrInvalidUsername)
	}
	if strings.ContainsAny(name, RecordDelimiter+"\r\n") {
		return fmt.Errorf("%w: username %q contains a comma or line break", ErrInvalidUsername, name)
	}
	return nil
}

// UnstorableCharacters are the password characters whose obfuscated form is
// a record delimiter or line break: '8' and '?' encode to LF and CR, and the
// unit separator 0x1E encodes to a comma.
const UnstorableCharacters = "8?\x1e"

// UnstorableDescription is the user-facing form of the storability requirement.
const UnstorableDescription = "Password must not contain '8' or '?'"

// CheckStorablePassword reports whether the obfuscated form of password can be
// written as the second field of a record.
func CheckStorablePassword(password string) error {
	if strings.ContainsAny(password, UnstorableCharacters) {
		return fmt.Errorf("%w: %w: password must not contain '8' or '?'", ErrInvalidInput, ErrUnstorable)
	}
	return nil
}
