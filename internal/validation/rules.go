// Package validation holds the acceptability rules for account identifiers,
// passwords and display names.
package validation

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Rule names double as validator tags.
type Rule string

const (
	RuleRequired       Rule = "required"
	RuleIdentifier     Rule = "identifier"
	RuleStrongPassword Rule = "strongpassword"
	RuleDisplayName    Rule = "displayname"
)

const (
	minUsernameLength = 2
	maxUsernameLength = 20
	minPasswordLength = 8
)

var identifierPattern = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)

// IsValidIdentifier reports whether s is 4-20 lowercase letters, digits or underscores.
func IsValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// IsStrongPassword requires at least 8 characters with a lowercase letter,
// an uppercase letter and a digit. Symbols are not required.
func IsStrongPassword(s string) bool {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}

// IsValidUsername reports whether the display name is 2-20 characters long.
func IsValidUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= minUsernameLength && n <= maxUsernameLength
}

// New returns a validator with the account rules registered as tags.
func New() *validator.Validate {
	v := validator.New()
	mustRegister(v, RuleIdentifier, IsValidIdentifier)
	mustRegister(v, RuleStrongPassword, IsStrongPassword)
	mustRegister(v, RuleDisplayName, IsValidUsername)
	return v
}

func mustRegister(v *validator.Validate, rule Rule, pred func(string) bool) {
	err := v.RegisterValidation(string(rule), func(fl validator.FieldLevel) bool {
		return pred(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// FirstFailure picks the rule to report for a failed struct validation.
// A missing field wins over everything else; otherwise the first failing
// field in declaration order is reported. ok is false when err does not come
// from the validator.
func FirstFailure(err error) (Rule, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", false
	}
	for _, fe := range verrs {
		if fe.Tag() == string(RuleRequired) {
			return RuleRequired, true
		}
	}
	return Rule(verrs[0].Tag()), true
}
