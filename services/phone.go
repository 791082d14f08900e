package services

import (
	"regexp"
	"strings"
)

var (
	e164Pattern   = regexp.MustCompile(`^\+\d{8,15}$`)
	nonDigits     = regexp.MustCompile(`\D`)
	plusAndDigits = regexp.MustCompile(`^\+\d+$`)
)

// NormalizePhone converts user input to E.164 with Vietnam (+84) as the
// default country. Input already in +<digits> form is kept as typed; a
// leading 84 gains a plus, a leading 0 is swapped for +84, anything else is
// prefixed with +84.
func NormalizePhone(input string) (string, error) {
	cleaned := strings.ReplaceAll(input, " ", "")
	if cleaned == "" {
		return "", ErrInvalidPhone
	}

	var normalized string
	switch {
	case plusAndDigits.MatchString(cleaned):
		normalized = cleaned
	default:
		digits := nonDigits.ReplaceAllString(cleaned, "")
		switch {
		case digits == "":
			return "", ErrInvalidPhone
		case strings.HasPrefix(digits, "84"):
			normalized = "+" + digits
		case strings.HasPrefix(digits, "0"):
			normalized = "+84" + digits[1:]
		default:
			normalized = "+84" + digits
		}
	}

	if !e164Pattern.MatchString(normalized) {
		return "", ErrInvalidPhone
	}

	return normalized, nil
}
