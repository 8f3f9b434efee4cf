package core

import (
	"errors"
	"fmt"
)

var (
	ErrChartNotFound = errors.New("chart not found")
	ErrEmptyName     = errors.New("empty chart name")

	// ErrStaleRefresh marks a chart load whose result was superseded by a
	// newer load of the same chart before it finished. Callers discard the
	// result.
	ErrStaleRefresh = errors.New("refresh superseded by a newer load")
)

// ServiceError is raised for every failed call against the metric data
// service. Status carries the HTTP status code; a Status of zero means the
// service could not be reached at all, so callers can distinguish "server
// said no" from "no server" uniformly.
type ServiceError struct {
	Message string
	Status  int
	Data    map[string]any
}

func (e *ServiceError) Error() string {
	return e.Message
}

// IsTransport reports whether the error is a network-level failure rather
// than a service rejection. Transport failures are safe to retry.
func (e *ServiceError) IsTransport() bool {
	return e.Status == 0
}

// NewTransportError builds the status-zero variant of ServiceError
func NewTransportError(err error) *ServiceError {
	return &ServiceError{
		Message: fmt.Sprintf("network error: unable to connect to server: %v", err),
		Status:  0,
	}
}
