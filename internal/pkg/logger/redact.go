package logger

import "strings"

const masked = "***"

// MaskEmail hides the local part of a customer address so batch diagnostics
// can name the row they choked on without leaking the contact itself. The
// domain stays readable because it is what operators usually need when a
// provider rejects a whole upload.
//
// The first two characters of the local part survive when it is long enough
// to keep them anonymous: "jane.doe@example.com" → "ja***@example.com",
// "ab@example.com" → "***@example.com". Anything that does not look like a
// single address, including the empty string, collapses to "***@***".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return masked + "@" + masked
	}
	if len(local) <= 2 {
		return masked + "@" + domain
	}
	return local[:2] + masked + "@" + domain
}
