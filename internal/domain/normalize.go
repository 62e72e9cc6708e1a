package domain

import "strings"

// NormalizeEmail lowercases and trims an email address for lookup and storage.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimText trims leading/trailing whitespace. Required text fields (title,
// content, author, comment bodies) are considered empty when this returns "".
func TrimText(s string) string {
	return strings.TrimSpace(s)
}
