package models

import "strings"

// ValidationErrors collects field-level validation failures, keyed by the
// JSON field name as it appears in the request body.
type ValidationErrors map[string][]string

func (e ValidationErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e ValidationErrors) Error() string {
	var parts []string
	for field, messages := range e {
		parts = append(parts, field+": "+strings.Join(messages, ", "))
	}
	return strings.Join(parts, "; ")
}

// NotFoundError covers both genuinely absent entities and ownership
// mismatches on bare-id lookups, so existence is never leaked.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError is returned when the entity was already resolved (e.g.
// bound from the route) and only the ownership check failed.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// GoneError marks an operation blocked by soft deletion, either of the
// entity itself or of its parent.
type GoneError struct {
	Message string
}

func (e *GoneError) Error() string {
	return e.Message
}
