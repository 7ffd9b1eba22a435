package checkout

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by a checkout that was abandoned, swept or fully
// committed.
var ErrClosed = errors.New("checkout: checkout is closed")

// ValidationError is a pre-flight failure the operator can fix, such as
// committing an empty cart.  Nothing has been submitted when it is
// returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "checkout: " + e.Reason }

// ConflictError reports a seat that another operator sold between the
// moment occupancy was resolved and the commit.  Refreshing occupancy and
// retrying with a different seat resolves it.
type ConflictError struct {
	SeatCode string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("checkout: seat %s is already sold", e.SeatCode)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// TransportError reports that the ticket store could not be reached or
// failed for a reason unrelated to the seat.  The seat may be retried.
type TransportError struct {
	SeatCode string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("checkout: seat %s could not be submitted: %v", e.SeatCode, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
