package graph

import (
	"context"
	"errors"

	"github.com/mcdev12/teamgraph/go/internal/player"
	"github.com/mcdev12/teamgraph/go/internal/sqlutil"
)

// Error codes reported in the "code" extension.
const (
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeTimeout             = "TIMEOUT"
	CodeInternal            = "INTERNAL"
)

var errMutationNotAllowed = errors.New("mutations are only accepted over POST")

// Error is returned by resolvers. The engine copies Extensions into the
// response error object.
type Error struct {
	Code    string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions implements the graphql-go extension hook.
func (e *Error) Extensions() map[string]interface{} {
	ext := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		ext[k] = v
	}
	ext["code"] = e.Code
	return ext
}

// wrapError maps app errors onto a coded *Error.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	if errors.Is(err, player.ErrInvalidInput) {
		return &Error{Code: CodeInvalidInput, Err: err}
	}
	if errors.Is(err, errMutationNotAllowed) {
		return &Error{Code: CodeMethodNotAllowed, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: CodeTimeout, Err: err}
	}

	var dbErr *sqlutil.Error
	if errors.As(err, &dbErr) {
		switch dbErr.Kind {
		case sqlutil.KindConstraint:
			details := map[string]interface{}{
				"kind":     dbErr.ConstraintKind,
				"sqlstate": dbErr.Code,
			}
			if dbErr.Constraint != "" {
				details["constraint"] = dbErr.Constraint
			}
			return &Error{Code: CodeConstraintViolation, Details: details, Err: err}
		case sqlutil.KindUnavailable:
			return &Error{Code: CodeDatabaseUnavailable, Err: err}
		}
	}

	return &Error{Code: CodeInternal, Err: err}
}
