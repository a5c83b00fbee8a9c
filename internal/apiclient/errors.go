package apiclient

import (
	"errors"
	"fmt"
)

// Class groups failures by what the user can do about them.
type Class int

const (
	// ClassNetwork: the request never got a response (offline, timeout).
	ClassNetwork Class = iota + 1
	// ClassValidation: the server refused the input shape.
	ClassValidation
	// ClassRejection: a business rule said no (zip not covered, code expired).
	ClassRejection
	// ClassRetryable: the server failed and nothing was written.
	ClassRetryable
)

func (c Class) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	case ClassValidation:
		return "validation"
	case ClassRejection:
		return "rejection"
	case ClassRetryable:
		return "retryable"
	}
	return "unknown"
}

type Error struct {
	Class   Class
	Status  int
	Code    string
	Message string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Class, e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Class, e.Err)
	}
	return e.Class.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ClassOf returns the class of err, or 0 when err did not come from Client.
func ClassOf(err error) Class {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return 0
}
