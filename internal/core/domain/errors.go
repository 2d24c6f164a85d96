package domain

import (
	"errors"
	"fmt"
)

var ErrProjectNotFound = errors.New("project not found")

// APIError is a failure reported by the remote backend. Detail carries the
// server's human-readable message when one was provided.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}
