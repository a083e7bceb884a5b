package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/shellkit/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Err returns an INVALID_INPUT AppError listing every field error, or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.errors)
}

func fieldsError(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fields)
}

// Required checks that a string is non-blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf checks that a non-empty value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// NonNegative checks that a duration is zero or positive.
func (v *Validator) NonNegative(field string, d time.Duration) *Validator {
	if d < 0 {
		v.AddError(field, "must not be negative")
	}
	return v
}

// Between checks that a number lies in [lo, hi].
func (v *Validator) Between(field string, value, lo, hi float64) *Validator {
	if value < lo || value > hi {
		v.AddError(field, fmt.Sprintf("must be between %v and %v", lo, hi))
	}
	return v
}

// Check records message for field unless ok holds.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Nested validates a sub-configuration and records its failure under prefix.
func (v *Validator) Nested(prefix string, validate func() error) *Validator {
	if err := validate(); err != nil {
		v.AddError(prefix, err.Error())
	}
	return v
}
