package domain

import "errors"

// ErrNotFound is returned by store functions when the requested vacation does
// not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation before
// any I/O is attempted (e.g. a blank vacation title).
var ErrValidation = errors.New("validation error")
