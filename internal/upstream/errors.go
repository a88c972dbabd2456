package upstream

import "errors"

// ErrNoCuisines maps the provider's "No Cuisines Found" condition. On an
// already-populated catalog it means the end of pagination, not a failure.
var ErrNoCuisines = errors.New("no cuisines found")

// ServerError is a failure the provider reported itself, as opposed to a
// transport-level error reaching it.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Message
}
