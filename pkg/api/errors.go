package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the server has no record for the
// request; for submissions this is a normal first-visit condition.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a create collides with an existing
// record. The wizard recovers by retrying as an update.
var ErrConflict = errors.New("already exists")

// ErrUnauthorized is returned when the access token is missing,
// expired or rejected.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError reports any other non-2xx response.
type StatusError struct {
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Msg)
}
