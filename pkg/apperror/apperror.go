// Package apperror defines the error kinds the domain services report to
// their callers. Every rejection is one of these; handlers translate them to
// HTTP statuses and nothing is logged-and-swallowed.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNumberExhausted indicates identifier generation could not find a free
// candidate within the bounded retry count. The create operation fails and
// the caller may retry the whole request.
var ErrNumberExhausted = errors.New("identifier space exhausted")

// Fields is a set of field-level validation errors, keyed by field name.
// An empty set means the payload was accepted. A payload that fails
// validation is never partially applied.
type Fields map[string]string

func (f Fields) Error() string {
	if len(f) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for a field, keeping the first message when the same
// field fails more than one rule.
func (f Fields) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// AsFields unwraps err into Fields if it is a validation error.
func AsFields(err error) (Fields, bool) {
	var f Fields
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// NotFoundError reports that the primary target of an operation does not
// exist. A dangling foreign key inside a payload is a validation error
// instead, matching how the reference reached the operation.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id.
func NotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConstraintError wraps a referential-integrity failure the database reports
// outside the cascade design. None are expected; reserved for completeness.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation during %s: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }
