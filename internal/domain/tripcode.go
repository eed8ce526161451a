package domain

import "strings"

// TripCodeLength is the fixed length of every trip code.
const TripCodeLength = 6

// TripCodeAlphabet is the set of characters a trip code is drawn from.
const TripCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ValidTripCode reports whether s has the trip code shape: exactly
// TripCodeLength characters, all from TripCodeAlphabet.
func ValidTripCode(s string) bool {
	if len(s) != TripCodeLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(TripCodeAlphabet, r) {
			return false
		}
	}
	return true
}

// NormalizeTripCode trims and upper-cases a code typed by a user.
func NormalizeTripCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
