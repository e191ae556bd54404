package utils

import (
	"errors"
	"strings"
)

// Callers match these with errors.Is; handlers translate them to status codes.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrPageOutOfBounds = errors.New("page out of bounds")
)

// RequestError reports a malformed request: bad JSON, a missing required
// field, a value of the wrong type. Each message is "<location>: <problem>".
type RequestError struct {
	Messages []string
}

func (e *RequestError) Error() string {
	return "invalid request: " + strings.Join(e.Messages, "; ")
}

// Add records one problem at loc, e.g. Add("query.user_id", "field required").
func (e *RequestError) Add(loc, msg string) {
	e.Messages = append(e.Messages, loc+": "+msg)
}

// Err returns e if any problem was recorded, nil otherwise.
func (e *RequestError) Err() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}
