package schema

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MinLength requires a string of at least n characters after trimming.
// Characters are counted as runes, not bytes, so accented supplier and brand
// names are measured the way the user sees them. The message mirrors the
// product copy used by the intake forms.
func MinLength(n int, message string) Validator {
	return func(value any) Outcome {
		text, ok := asString(value)
		if !ok {
			return Invalid(message)
		}
		if utf8.RuneCountInString(strings.TrimSpace(text)) < n {
			return Invalid(message)
		}
		return Valid()
	}
}

// NonEmpty requires a non-blank string.
func NonEmpty(message string) Validator {
	return MinLength(1, message)
}

// PositiveNumber requires a value that parses as a number strictly greater
// than zero. String inputs are accepted because the forms capture numbers as
// free text.
func PositiveNumber(message string) Validator {
	return func(value any) Outcome {
		parsed, ok := asFloat(value)
		if !ok || parsed <= 0 {
			return Invalid(message)
		}
		return Valid()
	}
}

// Email requires an address that passes a standard mailbox-shape check.
func Email(message string) Validator {
	return func(value any) Outcome {
		text, ok := asString(value)
		if !ok || strings.TrimSpace(text) == "" {
			return Invalid(message)
		}
		if _, err := mail.ParseAddress(strings.TrimSpace(text)); err != nil {
			return Invalid(message)
		}
		return Valid()
	}
}

// URL requires an absolute http(s) URL.
func URL(message string) Validator {
	return func(value any) Outcome {
		text, ok := asString(value)
		if !ok || strings.TrimSpace(text) == "" {
			return Invalid(message)
		}
		parsed, err := url.Parse(strings.TrimSpace(text))
		if err != nil || parsed.Host == "" {
			return Invalid(message)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return Invalid(message)
		}
		return Valid()
	}
}

// MustAccept requires the value to be exactly true. Used for terms-accepted
// style checkboxes.
func MustAccept(message string) Validator {
	return func(value any) Outcome {
		accepted, ok := value.(bool)
		if !ok || !accepted {
			return Invalid(message)
		}
		return Valid()
	}
}

// OneOf requires the value to match one of the allowed choices.
func OneOf(choices []string, message string) Validator {
	allowed := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		allowed[choice] = struct{}{}
	}
	return func(value any) Outcome {
		text, ok := asString(value)
		if !ok {
			return Invalid(message)
		}
		if _, found := allowed[strings.TrimSpace(text)]; !found {
			return Invalid(message)
		}
		return Valid()
	}
}

// Pattern requires the value to match check, a predicate over the trimmed
// string form. It exists so callers can plug compiled regexp matching without
// this package owning the expression.
func Pattern(check func(string) bool, message string) Validator {
	return func(value any) Outcome {
		text, ok := asString(value)
		if !ok || !check(strings.TrimSpace(text)) {
			return Invalid(message)
		}
		return Valid()
	}
}

// Optional wraps a validator so blank input passes while present input still
// has to satisfy the rule.
func Optional(rule Validator) Validator {
	return func(value any) Outcome {
		if isBlank(value) {
			return Valid()
		}
		return rule(value)
	}
}

func asString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return "", false
	}
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if text, ok := asString(value); ok {
		return strings.TrimSpace(text) == ""
	}
	return false
}
