package repository

import "errors"

// ErrNotFound marks an absent booking or flight status. Handlers translate
// it to 404; services pass it through unchanged.
var ErrNotFound = errors.New("not found")
