package models

import "errors"

var (
	// ErrNotFound covers both missing rows and rows hidden by the
	// draft/unpublished predicate; callers cannot tell them apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug is returned when a post or project slug is taken.
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrDuplicateName is returned when a category, tag, tech stack or
	// username is taken.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidFilter marks a query parameter that could not be parsed.
	ErrInvalidFilter = errors.New("invalid filter value")
)

// ValidationError represents a single validation error
type ValidationError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}
