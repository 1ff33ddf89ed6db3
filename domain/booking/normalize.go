package booking

import "strings"

// identifier separators users commonly type that the store never holds
var separatorReplacer = strings.NewReplacer(" ", "", "-", "", ".", "")

// Normalize strips spaces, hyphens, and periods from a user-supplied
// identifier. It is idempotent.
func Normalize(raw string) string {
	return separatorReplacer.Replace(raw)
}

// NormalizeBookingReference normalizes and uppercases a booking reference so
// it matches the index key format. Frequent-flyer numbers are not case-folded
// and go through Normalize directly.
func NormalizeBookingReference(raw string) string {
	return strings.ToUpper(Normalize(raw))
}
