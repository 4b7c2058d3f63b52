// internal/service/phone_service.go
package service

import (
	"strings"

	"golang.org/x/text/width"
)

// NormalizePhone validates and normalizes a Japanese recipient number.
// Accepts hyphens/spaces/parentheses, full-width digits and +81/81 country
// prefixes. Normalization is idempotent. On failure ok is false and reason
// is a human-readable explanation; the caller must not attempt delivery.
func NormalizePhone(raw string) (normalized string, ok bool, reason string) {
	s := strings.TrimSpace(width.Narrow.String(raw))
	if s == "" {
		return "", false, "empty phone number"
	}

	// Country code first, then strip separators.
	if strings.HasPrefix(s, "+81") {
		s = "0" + s[3:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '(', ')', '　':
			return -1
		}
		return r
	}, s)
	if strings.HasPrefix(s, "81") && len(s) >= 11 {
		s = "0" + s[2:]
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false, "contains non-digit characters"
		}
	}

	if len(s) < 10 {
		return "", false, "too few digits"
	}
	if len(s) > 11 {
		return "", false, "too many digits"
	}
	if !strings.HasPrefix(s, "0") {
		return "", false, "must start with 0"
	}
	// 11 digits must be a mobile/IP number (070/080/090/050), 10 digits a
	// landline.
	if len(s) == 11 {
		switch s[:3] {
		case "070", "080", "090", "050":
		default:
			return "", false, "not a mobile number pattern"
		}
	}

	return s, true, ""
}
