package intake

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorKind tags why a step could not use a collaborator's answer.
type ErrorKind string

const (
	KindValidationRejected     ErrorKind = "validation_rejected"
	KindServiceUnavailable     ErrorKind = "service_unavailable"
	KindMalformedServiceOutput ErrorKind = "malformed_service_output"
)

// ErrMalformedOutput is wrapped by adapters when a service answered successfully
// but with a shape the caller cannot use (empty choices, missing fields, ...).
var ErrMalformedOutput = errors.New("malformed service output")

// ServiceError is the typed failure of one external call.
type ServiceError struct {
	Service string
	Kind    ErrorKind
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func serviceFailure(service string, err error) *ServiceError {
	kind := KindServiceUnavailable
	if errors.Is(err, ErrMalformedOutput) {
		kind = KindMalformedServiceOutput
	}
	return &ServiceError{Service: service, Kind: kind, Err: err}
}

func malformed(service, format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Service: service,
		Kind:    KindMalformedServiceOutput,
		Err:     fmt.Errorf("%w: %s", ErrMalformedOutput, fmt.Sprintf(format, args...)),
	}
}

// KindOf returns the ErrorKind carried by err, or "" when err is not a ServiceError.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// withTimeout bounds one external call. Expiry surfaces as the call's error and
// is handled like any other failure of that service.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
