package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrAlreadyCancelled = fmt.Errorf("booking already cancelled: %w", ErrConflict)
)

// ValidationError rejects a malformed payload at the boundary; Fields maps
// field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) ValidationError {
	return ValidationError{Fields: fields}
}

func (e ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
