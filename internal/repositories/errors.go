package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors callers branch on with errors.Is. Not-found is not an
// error: finders return nil and Delete returns false.
var (
	ErrDuplicate    = errors.New("record already exists")
	ErrForeignKey   = errors.New("referenced record does not exist")
	ErrInvalidInput = errors.New("invalid input")
)

// classifyError maps constraint violations onto the sentinel errors and
// wraps everything else with op for context.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, ErrForeignKey)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%s: %w: %v", op, ErrInvalidInput, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isNotFound reports whether err is the no-rows condition
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// invalidInput wraps a validation failure so both ErrInvalidInput and the
// field-level details stay reachable through errors.Is / errors.As.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
