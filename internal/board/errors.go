package board

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means the request never produced a usable response.
	ErrNetwork = errors.New("network failure")
	// ErrRejected means the service answered with a non-success status.
	ErrRejected = errors.New("request rejected by server")
	// ErrStaleReference means a drag referenced a note that is no longer where the gesture claims.
	ErrStaleReference = errors.New("stale note reference")
	// ErrInvalidInput is returned before any request is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSuperseded means a fetched snapshot lost to a newer local mutation and was dropped.
	ErrSuperseded = errors.New("superseded by newer local change")
)

// RejectedError is a non-success response from the notes service.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", ErrRejected, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrRejected, e.StatusCode, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}
