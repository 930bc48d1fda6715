package repositories

import "errors"

// ErrNotFound is returned when a record with the requested key does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write would duplicate a unique key.
var ErrConflict = errors.New("record already exists")
