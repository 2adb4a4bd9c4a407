package sqlutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a database failure for callers that need to react to it.
type Kind string

const (
	// KindConstraint is a violated integrity constraint (SQLSTATE class 23).
	KindConstraint Kind = "constraint"
	// KindUnavailable is a connection or server availability failure.
	KindUnavailable Kind = "unavailable"
	// KindInternal is any other failure.
	KindInternal Kind = "internal"
)

// Constraint kinds reported for KindConstraint errors.
const (
	ConstraintForeignKey = "foreign_key"
	ConstraintUnique     = "unique"
	ConstraintNotNull    = "not_null"
	ConstraintCheck      = "check"
	ConstraintOther      = "other"
)

// Error is a classified database error. The underlying cause stays reachable
// through errors.Unwrap.
type Error struct {
	Kind Kind
	// ConstraintKind is one of the Constraint* values when Kind is KindConstraint.
	ConstraintKind string
	// Constraint is the violated constraint name, if the server reported one.
	Constraint string
	// Code is the SQLSTATE, if any.
	Code string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConstraint:
		if e.Constraint != "" {
			return fmt.Sprintf("%s constraint %q violated: %v", e.ConstraintKind, e.Constraint, e.Err)
		}
		return fmt.Sprintf("%s constraint violated: %v", e.ConstraintKind, e.Err)
	case KindUnavailable:
		return fmt.Sprintf("database unavailable: %v", e.Err)
	default:
		return fmt.Sprintf("database error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps err in an *Error. It returns nil for nil, leaves context
// cancellation untouched and returns an already classified error as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPgError(pgErr, err)
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) || isClosedPool(err) {
		return &Error{Kind: KindUnavailable, Err: err}
	}

	return &Error{Kind: KindInternal, Err: err}
}

func classifyPgError(pgErr *pgconn.PgError, err error) *Error {
	e := &Error{Kind: KindInternal, Code: pgErr.Code, Constraint: pgErr.ConstraintName, Err: err}

	switch {
	case strings.HasPrefix(pgErr.Code, "23"):
		e.Kind = KindConstraint
		switch pgErr.Code {
		case "23503":
			e.ConstraintKind = ConstraintForeignKey
		case "23505":
			e.ConstraintKind = ConstraintUnique
		case "23502":
			e.ConstraintKind = ConstraintNotNull
			if e.Constraint == "" {
				e.Constraint = pgErr.ColumnName
			}
		case "23514":
			e.ConstraintKind = ConstraintCheck
		default:
			e.ConstraintKind = ConstraintOther
		}
	case strings.HasPrefix(pgErr.Code, "08"), // connection_exception
		strings.HasPrefix(pgErr.Code, "53"), // insufficient_resources
		pgErr.Code == "57P01",              // admin_shutdown
		pgErr.Code == "57P02",              // crash_shutdown
		pgErr.Code == "57P03":              // cannot_connect_now
		e.Kind = KindUnavailable
	}

	return e
}

// isClosedPool matches the error pgxpool returns after Close.
func isClosedPool(err error) bool {
	return strings.Contains(err.Error(), "closed pool")
}
