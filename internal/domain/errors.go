package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidSpec         = errors.New("invalid campaign spec")
	ErrInvalidPledge       = errors.New("invalid pledge")
	ErrInvalidUser         = errors.New("invalid user snapshot")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrVersionConflict     = errors.New("version conflict")
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)
