package store

import "errors"

// ErrNotFound marks lookups and mutations that touched no row. Handlers
// translate it to 404; everything else is a server fault.
var ErrNotFound = errors.New("not found")
