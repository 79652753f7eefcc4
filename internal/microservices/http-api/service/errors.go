package service

import (
	"errors"

	"codeconnect/internal/microservices/http-api/repository"
)

// Error kinds. Handlers classify with errors.Is and map each kind to one status.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
)

// Error carries a kind and the message shown to the client
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func unauthenticated(msg string) error {
	return &Error{Kind: ErrUnauthenticated, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

// Messages shared by several services
var (
	errProjectNotFound = notFound("Project")
	errCommentNotFound = notFound("Comment")
	errRatingNotFound  = notFound("Rating")
	errUserNotFound    = notFound("User")
)

// orNotFound translates a repository miss into the given not-found error and
// passes anything else through unchanged.
func orNotFound(err, missing error) error {
	if repository.IsNotFound(err) {
		return missing
	}
	return err
}
