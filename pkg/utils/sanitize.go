package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeString trims, strips markup and drops control characters.
func SanitizeString(input string) string {
	return strings.TrimSpace(removeControlChars(stripHTML(input), false))
}

// SanitizeEmail lowercases and trims an address.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(removeControlChars(stripHTML(email), false)))
}

// SanitizePhone keeps digits and the usual separators.
func SanitizePhone(phone string) string {
	phone = stripHTML(strings.TrimSpace(phone))

	var result strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) || strings.ContainsRune("+-() .", r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeText is SanitizeString for multi-line fields such as descriptions.
func SanitizeText(input string) string {
	return strings.TrimSpace(removeControlChars(stripHTML(input), true))
}

func ValidateAndSanitizeEmail(email string) (string, error) {
	sanitized := SanitizeEmail(email)
	if !IsValidEmail(sanitized) {
		return "", errors.New("invalid email format")
	}
	return sanitized, nil
}

func stripHTML(input string) string {
	return tagPattern.ReplaceAllString(input, "")
}

func removeControlChars(input string, keepNewlines bool) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) || (keepNewlines && (r == '\n' || r == '\t' || r == '\r')) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
