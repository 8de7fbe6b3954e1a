package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field validators for the booking wizard. All of these are pure functions:
// they never touch state and never return errors, so form handlers can call
// them on every keystroke-equivalent update.

const maxImageSize = 10 << 20 // 10 MiB

var (
	nonDigitRe  = regexp.MustCompile(`\D`)
	nameRe      = regexp.MustCompile(`^[a-zA-Z\x{0400}-\x{04FF}\s-]{2,50}$`)
	stateRe     = regexp.MustCompile(`^[a-zA-Z\x{0400}-\x{04FF}]{2,50}$`)
	zipRe       = regexp.MustCompile(`^\d{5}$`)
	codeRe      = regexp.MustCompile(`^\d{4,6}$`)
	allowedMIME = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
)

// CleanPhoneNumber strips everything but digits from a phone string.
func CleanPhoneNumber(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}

// ValidatePhoneNumber reports whether phone contains 10 to 15 digits.
func ValidatePhoneNumber(phone string) bool {
	n := len(CleanPhoneNumber(phone))
	return n >= 10 && n <= 15
}

// FormatPhoneNumber renders a phone string for display: 10 digits become
// "(XXX) XXX-XXXX", 11 digits "+X (XXX) XXX-XXXX"; anything else is returned
// unchanged.
func FormatPhoneNumber(phone string) string {
	digits := CleanPhoneNumber(phone)
	switch len(digits) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:])
	case 11:
		return fmt.Sprintf("+%s (%s) %s-%s", digits[0:1], digits[1:4], digits[4:7], digits[7:])
	}
	return phone
}

// NormalizeUSPhoneNumber strips non-digits and drops the leading "1" country
// code from 11-digit numbers; this is the form the dispatch API expects.
func NormalizeUSPhoneNumber(phone string) string {
	digits := CleanPhoneNumber(phone)
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return digits[1:]
	}
	return digits
}

// ValidateName accepts 2-50 letters (Latin or Cyrillic), spaces and hyphens.
func ValidateName(name string) bool {
	return nameRe.MatchString(strings.TrimSpace(name))
}

// ValidateAddress requires at least 5 characters after trimming.
func ValidateAddress(address string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(address)) >= 5
}

// ValidateCity follows the same rules as names.
func ValidateCity(city string) bool {
	return nameRe.MatchString(strings.TrimSpace(city))
}

// ValidateState accepts 2-50 letters with no spaces.
func ValidateState(state string) bool {
	return stateRe.MatchString(strings.TrimSpace(state))
}

// ValidateZipCode requires exactly 5 digits.
func ValidateZipCode(zip string) bool {
	return zipRe.MatchString(zip)
}

// ValidateVerificationCode requires a 4-6 digit code.
func ValidateVerificationCode(code string) bool {
	return codeRe.MatchString(code)
}

// ValidateImageFile checks a photo upload by its declared MIME type and size.
func ValidateImageFile(contentType string, size int64) bool {
	return allowedMIME[strings.ToLower(contentType)] && size <= maxImageSize
}

// IsEmpty reports whether a value is empty or whitespace only.
func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

// FieldError returns a human-readable validation message for the named form
// field, or "" when the value is acceptable. Every form step goes through
// this single dispatch so error copy stays consistent.
func FieldError(field, value string) string {
	switch field {
	case "phone", "phoneNumber":
		if !ValidatePhoneNumber(value) {
			return "Enter valid phone number"
		}
	case "firstName", "lastName":
		if !ValidateName(value) {
			return "Name must be between 2 and 50 characters"
		}
	case "address":
		if !ValidateAddress(value) {
			return "Enter valid address"
		}
	case "city":
		if !ValidateCity(value) {
			return "Enter valid city"
		}
	case "state":
		if !ValidateState(value) {
			return "Enter valid state"
		}
	case "zipCode":
		if !ValidateZipCode(value) {
			return "ZIP code must be 5 digits"
		}
	case "verificationCode":
		if !ValidateVerificationCode(value) {
			return "Code must be 4-6 digits"
		}
	}
	return ""
}
