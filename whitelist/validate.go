package whitelist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nrfta/records-paging/enum"
)

// Rule identifies which validation rule a field name broke.
type Rule int

const (
	RuleEmpty Rule = iota + 1
	RuleTooShort
	RuleTooLong
	RuleLeadingCharacter
	RuleInvalidCharacter
	RuleDoubleUnderscore
	RuleReservedWord
	RuleNotAllowed
)

// Rules is the enumeration of Rule names.
var Rules = enum.New(map[Rule]string{
	RuleEmpty:            "empty",
	RuleTooShort:         "too_short",
	RuleTooLong:          "too_long",
	RuleLeadingCharacter: "leading_character",
	RuleInvalidCharacter: "invalid_character",
	RuleDoubleUnderscore: "double_underscore",
	RuleReservedWord:     "reserved_word",
	RuleNotAllowed:       "not_allowed",
})

func (r Rule) String() string {
	return Rules.String(r)
}

// FieldValidationError describes why a field name was rejected.
type FieldValidationError struct {
	Field  string
	Rule   Rule
	Detail string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Detail)
}

// HasRule reports whether err is a FieldValidationError for rule.
func HasRule(err error, rule Rule) bool {
	var fve *FieldValidationError
	return errors.As(err, &fve) && fve.Rule == rule
}

// ValidateFieldName checks the syntax of name under config.
//
// Checks run in this order: non-empty, length within
// [MinFieldLength, MaxFieldLength], leading character, character set, no
// "__" run, not a reserved word. The first failure is returned.
func ValidateFieldName(name string, config FieldConfig) error {
	if name == "" {
		return fail(name, RuleEmpty, "field name is empty")
	}

	if len(name) < config.MinFieldLength {
		return fail(name, RuleTooShort, "shorter than %d characters", config.MinFieldLength)
	}
	if config.MaxFieldLength > 0 && len(name) > config.MaxFieldLength {
		return fail(name, RuleTooLong, "longer than %d characters", config.MaxFieldLength)
	}

	segments, err := splitSegments(name, config)
	if err != nil {
		return err
	}

	for _, seg := range segments {
		c := seg[0]
		if isLetter(c) || (c == '_' && config.AllowLeadingUnderscore) {
			continue
		}
		if c == '_' {
			return fail(name, RuleLeadingCharacter, "must not start with an underscore")
		}
		return fail(name, RuleLeadingCharacter, "must start with a letter, got %q", c)
	}

	for _, seg := range segments {
		for i := 0; i < len(seg); i++ {
			if c := seg[i]; !isLetter(c) && !isDigit(c) && c != '_' {
				return fail(name, RuleInvalidCharacter, "invalid character %q", c)
			}
		}
	}

	if strings.Contains(name, "__") {
		return fail(name, RuleDoubleUnderscore, "must not contain consecutive underscores")
	}

	if config.IsReserved(name) {
		return fail(name, RuleReservedWord, "%s is a reserved word", upper(name))
	}
	for _, seg := range segments {
		if config.IsReserved(seg) {
			return fail(name, RuleReservedWord, "%s is a reserved word", upper(seg))
		}
	}

	return nil
}

// splitSegments breaks a name into its identifier segments, removing the
// structural dots and brackets the config allows. Misplaced structure is
// reported as an invalid character.
func splitSegments(name string, config FieldConfig) ([]string, error) {
	parts := []string{name}
	if config.AllowDots {
		parts = strings.Split(name, ".")
		if len(parts) > 2 {
			return nil, fail(name, RuleInvalidCharacter, "at most one '.' is allowed")
		}
	}

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if config.AllowBrackets && len(part) >= 2 && part[0] == '[' && part[len(part)-1] == ']' {
			part = part[1 : len(part)-1]
		}
		if part == "" {
			return nil, fail(name, RuleInvalidCharacter, "misplaced '.' or empty brackets")
		}
		segments = append(segments, part)
	}

	return segments, nil
}

func fail(name string, rule Rule, format string, args ...any) error {
	return &FieldValidationError{
		Field:  name,
		Rule:   rule,
		Detail: fmt.Sprintf(format, args...),
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func upper(s string) string {
	return strings.ToUpper(s)
}
