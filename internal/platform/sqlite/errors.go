package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"bigbrain/internal/store"

	sqlitedriver "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging while
// keeping the surfaced classification stable. Every database operation in
// this package funnels its errors through here.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var sqlErr *sqlitedriver.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: foreign key violation: %v", store.ErrStorage, err)
		case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: unique constraint violation: %v", store.ErrStorage, err)
		case sqlitelib.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: check constraint violation: %v", store.ErrStorage, err)
		case sqlitelib.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%w: not null violation: %v", store.ErrStorage, err)
		}
		return fmt.Errorf("%w: %v", store.ErrStorage, err)
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// IsConstraintViolation checks if the given error is any SQLite constraint
// violation (foreign key, unique, check, or not-null).
func IsConstraintViolation(err error) bool {
	var sqlErr *sqlitedriver.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT
}
