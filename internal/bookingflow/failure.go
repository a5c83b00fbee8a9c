package bookingflow

import (
	"errors"

	"github.com/BruksfildServices01/service-booking/internal/apiclient"
)

// Failure is what the customer is shown when a step cannot proceed. Each
// class gets its own wording.
type Failure struct {
	Class   apiclient.Class
	Code    string
	Message string
	Timeout bool
}

func (f Failure) UserMessage() string {
	switch f.Class {
	case apiclient.ClassNetwork:
		if f.Timeout {
			return "The server took too long to answer. Please try again."
		}
		return "We could not reach the server. Check your connection and try again."
	case apiclient.ClassRetryable:
		return "Something went wrong on our side and nothing was saved. Please try again."
	case apiclient.ClassValidation:
		if f.Message != "" {
			return "Please check your input: " + f.Message
		}
		return "Please check your input."
	case apiclient.ClassRejection:
		if f.Message != "" {
			return f.Message
		}
		return "This request was declined."
	}
	return "Unexpected error."
}

func validation(code, message string) *Failure {
	return &Failure{Class: apiclient.ClassValidation, Code: code, Message: message}
}

// FailureFrom classifies an error returned by the API. Unknown errors are
// treated as network failures.
func FailureFrom(err error) Failure {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return Failure{
			Class:   apiErr.Class,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Timeout: apiErr.Timeout,
		}
	}
	return Failure{Class: apiclient.ClassNetwork, Message: err.Error()}
}
