// Package model contains the data models and repository interfaces.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator is implemented by models that can validate themselves.
type Validator interface {
	Validate() error
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors reports whether the collection contains any errors.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

var urlRegex = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)

// ValidateRequired checks that a string field is not blank.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateLength checks that a string field length is within bounds.
func ValidateLength(field, value string, min, max int) error {
	length := len(strings.TrimSpace(value))
	if length < min {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)}
	}
	if length > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

// ValidateURL checks that a string is a plausible http(s) URL.
func ValidateURL(field, value string) error {
	if !urlRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "invalid URL format"}
	}
	return nil
}
