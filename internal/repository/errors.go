// Package repository contains the MySQL data access of the back office.
// Repositories translate driver errors into the sentinel values below so
// handlers and the checkout can tell failure scenarios apart.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write clashes with existing state: a
// duplicate key (a seat sold twice, a room number reused) or a delete of
// a row other rows still reference.  Handlers translate it into 409.
var ErrConflict = errors.New("conflict")

// ErrReference is returned when a write points at a row that does not
// exist, e.g. a session for an unknown movie.
var ErrReference = errors.New("referenced record does not exist")

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// mapError wraps known MySQL errors with a sentinel and leaves everything
// else untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDuplicateEntry, mysqlRowIsReferenced:
		return fmt.Errorf("%w: %s", ErrConflict, me.Message)
	case mysqlNoReferencedRow:
		return fmt.Errorf("%w: %s", ErrReference, me.Message)
	}
	return err
}

// affected turns a zero-row UPDATE or DELETE into ErrNotFound.
func affected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
