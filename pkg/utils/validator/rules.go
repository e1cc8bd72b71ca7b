package validator

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Custom validation tags.
const (
	TagIndexName    = "indexname"    // Vector index name: letter first, then letters, digits, '_' or '-', up to 64
	TagExtension    = "extension"    // File extension with a leading dot, e.g. ".pdf"
	TagBaseName     = "basename"     // A bare file name without directory parts
	TagNoWhitespace = "nowhitespace" // No whitespace characters
	TagTrimmed      = "trimmed"      // No leading or trailing whitespace
)

var (
	indexNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,63}$`)
	extensionRegex = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

func (v *Validator) registerCustomRules() {
	_ = v.validate.RegisterValidation(TagIndexName, validateIndexName)
	_ = v.validate.RegisterValidation(TagExtension, validateExtension)
	_ = v.validate.RegisterValidation(TagBaseName, validateBaseName)
	_ = v.validate.RegisterValidation(TagNoWhitespace, validateNoWhitespace)
	_ = v.validate.RegisterValidation(TagTrimmed, validateTrimmed)
}

// Empty values pass every custom rule; 'required' handles presence.

func validateIndexName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || indexNameRegex.MatchString(value)
}

func validateExtension(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || extensionRegex.MatchString(value)
}

func validateBaseName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if value == "." || value == ".." || strings.ContainsAny(value, `/\`) {
		return false
	}
	return filepath.Base(value) == value
}

func validateNoWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func validateTrimmed(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == strings.TrimSpace(value)
}
