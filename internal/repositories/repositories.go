// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"errors"
	"fmt"

	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// validate runs a write payload's own checks before any SQL is built.
func validate(payload models.Model) error {
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// storageError wraps a driver error with the matching sentinel from package shared.
//
// UNIQUE and PRIMARY KEY constraint failures map to [shared.ErrUniqueConstraint]; everything
// else maps to [shared.ErrStorage].
func storageError(action string, err error) error {
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %w", shared.ErrUniqueConstraint, action, err)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrStorage, action, err)
}

// IsUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return false
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return true
	}
	return false
}
