package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error codes returned per field. The presentation layer maps these to
// display text; the engine itself never formats messages.
const (
	CodeRequired     = "required"
	CodeNameTooShort = "nameTooShort"
	CodeNameTooLong  = "nameTooLong"
	CodePhoneInvalid = "phoneInvalid"
	CodeEmailInvalid = "emailInvalid"
	CodeContentShort = "contentTooShort"
)

// Kind selects the rule applied to a field.
type Kind int

const (
	// KindName requires a trimmed length between 2 and 50.
	KindName Kind = iota
	// KindPhone requires a Vietnamese mobile number: +84 or a leading 0,
	// a prefix digit in {3,5,7,8,9}, then exactly 8 digits.
	KindPhone
	// KindEmail requires a local@domain.tld shape with no whitespace.
	KindEmail
	// KindContent requires a trimmed length of at least 10.
	KindContent
)

// FieldRule binds a record field to a rule.
type FieldRule struct {
	Field    string
	Kind     Kind
	Optional bool
}

// Schema enumerates the fields to validate, in order.
type Schema []FieldRule

// Result maps field names to error codes. An empty result means the record
// is valid.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool { return len(r) == 0 }

// Clear removes the error for a single field, leaving the others intact so
// a form can be corrected incrementally.
func (r Result) Clear(field string) {
	delete(r, field)
}

var (
	phonePattern = regexp.MustCompile(`^(?:\+84|0)[35789]\d{8}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validate applies each schema rule in order and collects per-field error
// codes. Malformed input yields codes, never a panic.
func Validate(record map[string]string, schema Schema) Result {
	result := Result{}
	for _, rule := range schema {
		raw := record[rule.Field]
		if code := check(raw, rule); code != "" {
			result[rule.Field] = code
		}
	}
	return result
}

func check(raw string, rule FieldRule) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if rule.Optional {
			return ""
		}
		return CodeRequired
	}

	switch rule.Kind {
	case KindName:
		if len([]rune(trimmed)) < 2 {
			return CodeNameTooShort
		}
		if len([]rune(trimmed)) > 50 {
			return CodeNameTooLong
		}
	case KindPhone:
		if !phonePattern.MatchString(trimmed) {
			return CodePhoneInvalid
		}
	case KindEmail:
		if !emailPattern.MatchString(trimmed) {
			return CodeEmailInvalid
		}
	case KindContent:
		if len([]rune(trimmed)) < 10 {
			return CodeContentShort
		}
	}
	return ""
}

// Phone validates a single Vietnamese mobile number.
func Phone(s string) bool { return phonePattern.MatchString(s) }

// Email validates a single email address.
func Email(s string) bool { return emailPattern.MatchString(s) }

// ConsultationSchema covers consultation submissions from the public form
// and admin creation alike.
func ConsultationSchema() Schema {
	return Schema{
		{Field: "name", Kind: KindName},
		{Field: "phone", Kind: KindPhone},
		{Field: "parent_phone", Kind: KindPhone, Optional: true},
		{Field: "email", Kind: KindEmail},
		{Field: "content", Kind: KindContent},
	}
}

// RegisterVNPhone adds the vnphone rule to a validator instance so DTO tags
// can reuse the same pattern.
func RegisterVNPhone(v *validator.Validate) error {
	return v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}
