package mocks

import "errors"

var (
	ErrDuplicateOperation = errors.New("operation already exists")
	ErrStoreDown          = errors.New("store unavailable")
)
