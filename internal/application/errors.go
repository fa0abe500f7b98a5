package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested resource does not exist or is
	// not visible to the requester.
	ErrNotFound = errors.New("application: not found")
	// ErrAccessDenied marks a resource that exists but belongs to another user.
	// Errors carrying it also match ErrNotFound so callers cannot tell the two apart.
	ErrAccessDenied = errors.New("application: access denied")
	// ErrConflict is returned when a concurrent write changed the resource first.
	ErrConflict = errors.New("application: conflict")
)

// ResourceKind names the resource an ownership or lookup failure refers to.
type ResourceKind string

const (
	ResourceEvent     ResourceKind = "EVENT"
	ResourceEventList ResourceKind = "EVENT_LIST"
	ResourceTask      ResourceKind = "TASK"
)

// ResourceError reports a resource that is missing or not owned by the requester.
type ResourceError struct {
	Kind       ResourceKind
	ResourceID int64
	UserID     string
	denied     bool
}

func (e *ResourceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ResourceID)
}

// Unwrap exposes ErrNotFound for both missing and denied resources.
func (e *ResourceError) Unwrap() error { return ErrNotFound }

// Is lets errors.Is match ErrAccessDenied only for denied resources.
func (e *ResourceError) Is(target error) bool {
	return target == ErrAccessDenied && e != nil && e.denied
}

// Denied reports whether the resource exists but is owned by someone else.
// Only audit logging should look at this.
func (e *ResourceError) Denied() bool { return e != nil && e.denied }

func notFound(kind ResourceKind, id int64, userID string) error {
	return &ResourceError{Kind: kind, ResourceID: id, UserID: userID}
}

func accessDenied(kind ResourceKind, id int64, userID string) error {
	return &ResourceError{Kind: kind, ResourceID: id, UserID: userID, denied: true}
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
	cause       error
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// Unwrap returns the domain error that triggered the failure, if any.
func (v *ValidationError) Unwrap() error {
	if v == nil {
		return nil
	}
	return v.cause
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
	if v.cause == nil {
		v.cause = other.cause
	}
}
