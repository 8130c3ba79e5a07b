package utils

import "regexp"

// phonePattern accepts an optional leading "+", an optionally parenthesized
// three-digit area code, then three digits and four to six digits, with
// optional "-", " " or "." separators.
var phonePattern = regexp.MustCompile(`^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`)

// PhoneValidator reports whether a phone number is acceptable.
type PhoneValidator func(phoneNumber string) bool

func IsValidPhoneNumber(phoneNumber string) bool {
	return phonePattern.MatchString(phoneNumber)
}
