package registry

import (
	"emperror.dev/errors"
	"fmt"
)

var (
	ErrIOFailure             = errors.New("staging i/o failure")
	ErrSourceUnreadable      = errors.New("source file unreadable")
	ErrInvalidInfraName      = errors.New("invalid infrastructure file name")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrNotFound              = errors.New("identifier not found")
	ErrInfrastructureRemoval = errors.New("infrastructure resources cannot be removed")
)

// Error binds one of the sentinel errors to the underlying cause, so that
// errors.Is matches both.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	msg := e.kind.Error()
	if e.msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.msg)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// Kind returns the sentinel error.
func (e *Error) Kind() error { return e.kind }

func newError(kind, cause error, format string, a ...any) error {
	return errors.WithStack(&Error{
		kind:  kind,
		msg:   fmt.Sprintf(format, a...),
		cause: cause,
	})
}
