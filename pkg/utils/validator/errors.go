package validator

import (
	"strings"
)

// ValidationErrors represents a collection of validation errors.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single field validation error.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return ""
	}
	return "validation failed: " + strings.Join(v.Messages(), "; ")
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// Count returns the number of validation errors.
func (v *ValidationErrors) Count() int {
	if v == nil {
		return 0
	}
	return len(v.Errors)
}

// First returns the first error message, or "".
func (v *ValidationErrors) First() string {
	if !v.HasErrors() {
		return ""
	}
	return v.Errors[0].Message
}

// Messages returns all error messages.
func (v *ValidationErrors) Messages() []string {
	if !v.HasErrors() {
		return nil
	}
	messages := make([]string, len(v.Errors))
	for i, fe := range v.Errors {
		messages[i] = fe.Message
	}
	return messages
}

// Errs returns the messages as errors, for option groups that report []error.
func (v *ValidationErrors) Errs() []error {
	if !v.HasErrors() {
		return nil
	}
	errs := make([]error, len(v.Errors))
	for i, fe := range v.Errors {
		errs[i] = fieldErr(fe)
	}
	return errs
}

type fieldErr FieldError

func (e fieldErr) Error() string { return e.Message }

// NewValidationError creates a ValidationErrors with a single error.
func NewValidationError(field, tag, message string) *ValidationErrors {
	return &ValidationErrors{Errors: []FieldError{{Field: field, Tag: tag, Message: message}}}
}
