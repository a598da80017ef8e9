package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// Validator collects field errors for one request.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator
func (v *Validator) AddError(field, message string) {
	v.Errors[field] = message
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// First returns an arbitrary single error message, for APIs that
// report one failure at a time.
func (v *Validator) First() string {
	for _, msg := range v.Errors {
		return msg
	}
	return ""
}

// Required checks if a string is not empty
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MinLength checks if a string has at least n characters
func (v *Validator) MinLength(field string, value string, n int) {
	v.Check(len(value) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Range checks if a number is between min and max
func (v *Validator) Range(field string, value float64, min, max float64) {
	v.Check(value >= min && value <= max, field, fmt.Sprintf("must be between %v and %v", min, max))
}

// Username validates the account username format
func (v *Validator) Username(field, username string) {
	v.Check(usernameRegex.MatchString(username), field,
		"must be 3-30 lowercase letters, digits, dots or underscores")
}

// Password validates password strength
func (v *Validator) Password(field, password string) {
	v.MinLength(field, password, MinPasswordLength)
	v.MaxLength(field, password, MaxPasswordLength)

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	v.Check(hasLetter, field, "must contain at least one letter")
	v.Check(hasNumber, field, "must contain at least one number")
}
