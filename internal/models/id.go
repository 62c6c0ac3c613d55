package models

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

// Public identifiers are 24-character hexadecimal strings. Callers must
// reject malformed identifiers (400) before looking anything up, so a bad
// format is never confused with a missing record (404).
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID generates a fresh 24-character hexadecimal identifier.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:12])
}

// IsValidID reports whether s is a well-formed identifier.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
