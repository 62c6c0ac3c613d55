package repositories

import "errors"

// ErrNotFound is returned by every repository when the requested record
// does not exist. Services translate it into their domain errors.
var ErrNotFound = errors.New("record not found")
