package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

// Basic URL shape: optional http(s) scheme, dotted host, optional path.
var basicURLRegex = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// BasicURL validates that a string looks like a URL: scheme optional, host
// with a dotted lowercase domain, optional path. The match is
// case-sensitive, so uppercase hosts are rejected. It does not resolve or
// fetch anything.
func BasicURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			v := strings.TrimSpace(value)
			if v == "" {
				return false
			}
			return basicURLRegex.MatchString(v)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid URL",
		},
	}
}

// ValidEmail validates that a string is a parseable email address with a
// dotted domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			v := strings.TrimSpace(value)
			if v == "" {
				return false
			}

			addr, err := mail.ParseAddress(v)
			if err != nil {
				return false
			}

			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 || parts[0] == "" {
				return false
			}

			domain := parts[1]
			return strings.Contains(domain, ".") &&
				!strings.HasPrefix(domain, ".") &&
				!strings.HasSuffix(domain, ".")
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}
