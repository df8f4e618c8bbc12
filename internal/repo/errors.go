package repo

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ==========================
// Failure kinds
// ==========================

// The repo layer translates every driver error into one of these kinds
// before returning, so callers can match with errors.Is and decide
// whether to abort, reprompt, or report. No *pq.Error escapes this
// package.
var (
	ErrNotFound     = errors.New("not found")
	ErrConnectivity = errors.New("database connection failure")
	ErrConstraint   = errors.New("constraint violation")
	ErrData         = errors.New("invalid data")

	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrShoeNotFound  = fmt.Errorf("shoe %w", ErrNotFound)
	ErrUsernameTaken = fmt.Errorf("username taken: %w", ErrConstraint)
	ErrEmailTaken    = fmt.Errorf("email taken: %w", ErrConstraint)
)

// translateErr maps lib/pq SQLSTATE classes onto the failure kinds.
// Class 08 is connection exceptions, 53/57 cover shutdown and resource
// exhaustion, 22 is bad data, 23 is integrity constraints.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return fmt.Errorf("%w: %s", ErrConnectivity, pqErr.Message)
		case "22":
			return fmt.Errorf("%w: %s", ErrData, pqErr.Message)
		case "23":
			return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Message)
		}
		return fmt.Errorf("database error %s: %s", pqErr.Code, pqErr.Message)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	return err
}

// Message renders the user-facing text for a repo failure. The shell and
// the API error handlers both lean on this so wording stays consistent.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrConnectivity):
		return "Unable to reach the database. Please check your connection and try again."
	case errors.Is(err, ErrData):
		return "Invalid data was sent to the database. Please check your input."
	case errors.Is(err, ErrConstraint):
		return "That change conflicts with an existing record."
	case errors.Is(err, ErrNotFound):
		return "No matching record was found."
	default:
		return "Database error occurred. Please try again later."
	}
}
