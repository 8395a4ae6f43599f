package service

import "errors"

// Service error taxonomy / Taxonomie des erreurs du service
// Any error not listed here is a store failure and is returned unchanged.
var (
	ErrUnauthorized      = errors.New("authentication required")
	ErrOperationNotFound = errors.New("operation not found")
	ErrForbidden         = errors.New("operation belongs to another user")
	ErrInvalidStatus     = errors.New("invalid operation status")
)
