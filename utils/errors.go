package utils

import "errors"

// Sentinel errors for the service layer. Services wrap these with
// %w so controllers can map them onto HTTP status codes without the
// services importing anything HTTP-shaped.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)
