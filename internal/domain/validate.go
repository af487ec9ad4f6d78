package domain

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate backs the field rules. It is safe for concurrent use and caches
// parsed tags.
var validate = validator.New()

// Rule checks one property of an input and returns nil when it holds.
type Rule func() *FieldError

// Collect runs every rule and returns a *ValidationError holding all failures,
// or nil when all rules pass.
func Collect(rules ...Rule) error {
	var failures []FieldError
	for _, rule := range rules {
		if fe := rule(); fe != nil {
			failures = append(failures, *fe)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &ValidationError{Errors: failures}
}

// check reports message for field when value does not satisfy tag.
func check(field string, value any, tag, message string) Rule {
	return func() *FieldError {
		if err := validate.Var(value, tag); err != nil {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// Required fails when value is empty after trimming.
func Required(field, value, message string) Rule {
	return check(field, strings.TrimSpace(value), "required", message)
}

// LengthBetween fails when the rune count of value is outside [lo, hi].
// An empty value passes; pair with Required for mandatory fields.
func LengthBetween(field, value string, lo, hi int, message string) Rule {
	return check(field, value, "omitempty,min="+strconv.Itoa(lo)+",max="+strconv.Itoa(hi), message)
}

// MinLength fails when value has fewer than min runes.
func MinLength(field, value string, min int, message string) Rule {
	return check(field, value, "min="+strconv.Itoa(min), message)
}

// MaxLength fails when value has more than max runes.
func MaxLength(field, value string, max int, message string) Rule {
	return check(field, value, "max="+strconv.Itoa(max), message)
}

// MaxBytes fails when value is longer than max bytes.
func MaxBytes(field, value string, max int, message string) Rule {
	return check(field, len(value), "max="+strconv.Itoa(max), message)
}

// OneOf fails when value is not among allowed. Allowed values must not
// contain spaces.
func OneOf[T ~string](field string, value T, allowed []T, message string) Rule {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return check(field, string(value), "oneof="+strings.Join(names, " "), message)
}

// ValidEmail fails when value is not a bare address with a dotted domain.
func ValidEmail(field, value string) Rule {
	return func() *FieldError {
		const message = "Please provide a valid email"
		if err := validate.Var(value, "email"); err != nil {
			return &FieldError{Field: field, Message: message}
		}
		domainPart := value[strings.LastIndex(value, "@")+1:]
		if i := strings.Index(domainPart, "."); i <= 0 || i == len(domainPart)-1 {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// ContainsDigit fails when value has no ASCII digit.
func ContainsDigit(field, value, message string) Rule {
	return check(field, value, "containsany=0123456789", message)
}

// When returns rule if cond holds, otherwise a rule that always passes.
func When(cond bool, rule Rule) Rule {
	if cond {
		return rule
	}
	return func() *FieldError { return nil }
}

// Fail is a rule that always reports message for field.
func Fail(field, message string) Rule {
	return func() *FieldError { return &FieldError{Field: field, Message: message} }
}
