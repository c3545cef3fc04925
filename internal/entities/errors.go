package entities

import "errors"

// ErrNotFound is returned by repositories when the requested entity does not
// exist.
var ErrNotFound = errors.New("record not found")
