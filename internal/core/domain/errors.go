package domain

import "errors"

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Role errors
var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrInvalidStatus = errors.New("invalid status")
)
