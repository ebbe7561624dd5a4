package domain

import "strings"

// NormalizeEmail produces the canonical form of an email address: trimmed
// of surrounding whitespace and lowercased. The canonical email is the
// identity key across the registry, the brand stores, and the master list;
// two raw strings that normalize to the same value refer to the same
// customer everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
