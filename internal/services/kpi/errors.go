package kpi

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies an execution failure.
type ErrorKind int

const (
	// KindStatus means the API answered with a non-2xx status.
	KindStatus ErrorKind = iota
	// KindTransport means the request never produced a response.
	KindTransport
	// KindCanceled means the caller's context ended before or during the call.
	KindCanceled
	// KindParse means a 2xx body was not valid JSON of the expected shape.
	KindParse
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	case KindCanceled:
		return "canceled"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// ExecutionError reports a failed KPI API call.
type ExecutionError struct {
	Err        error
	Body       string
	Kind       ErrorKind
	StatusCode int
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("kpi api request failed (status %d): %s", e.StatusCode, e.Body)
	case KindCanceled:
		return fmt.Sprintf("kpi api request canceled: %v", e.Err)
	case KindParse:
		return fmt.Sprintf("failed to parse kpi api response: %v", e.Err)
	default:
		return fmt.Sprintf("kpi api request failed: %v", e.Err)
	}
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsCanceled reports whether err is an execution error caused by cancellation.
func IsCanceled(err error) bool {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Kind == KindCanceled
	}
	return errors.Is(err, context.Canceled)
}
