package db

import "errors"

// Common database errors
var (
	ErrNoRecord            = errors.New("no matching record found")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
)
