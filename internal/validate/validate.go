package validate

import (
	"regexp"
	"strings"
)

// Errors collects field-level validation failures, rendered as the "errors"
// object of a 422 response.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Any() bool { return len(e) > 0 }

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces a length window plus mixed character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// OrderStatus reports whether s is one of the accepted lifecycle states.
func OrderStatus(s string) bool {
	switch s {
	case "pending", "processing", "shipped", "delivered", "cancelled":
		return true
	}
	return false
}

// BookFormat reports whether s is an accepted book detail format.
func BookFormat(s string) bool {
	switch s {
	case "Hardcover", "Paperback", "Ebook", "Audiobook":
		return true
	}
	return false
}

// Rating reports whether n is an accepted review rating.
func Rating(n int) bool { return n >= 1 && n <= 5 }

// MaxLen reports whether s fits within n bytes.
func MaxLen(s string, n int) bool { return len(s) <= n }
