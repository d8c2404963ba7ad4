package webservice

import (
	"errors"
	"fmt"
)

var (
	// ErrLibrary is matched by every error this package produces.
	ErrLibrary = errors.New("webservice library error")

	// ErrInvalidArgument is matched by construction-time validation failures.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrWebService is matched by failed invocations.
	ErrWebService = errors.New("webservice exception")
)

// ConfigurationError reports connection parameters rejected by New.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrLibrary || target == ErrInvalidArgument
}

// WebServiceError reports a request that could not be completed by the transport.
// Cause holds the transport error for diagnostics.
type WebServiceError struct {
	Cause error
}

func (e *WebServiceError) Error() string {
	return "invoking web service failed"
}

func (e *WebServiceError) Unwrap() error { return e.Cause }

func (e *WebServiceError) Is(target error) bool {
	return target == ErrLibrary || target == ErrWebService
}

// StatusError is raised by StatusEvaluator for responses with an error status.
type StatusError struct {
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("web service responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("web service responded with status %d: %s", e.StatusCode, e.Snippet)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrLibrary || target == ErrWebService
}
