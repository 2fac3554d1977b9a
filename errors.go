package tack

import "errors"

// ErrModuleNotFound is returned when a dotted name does not correspond
// to any module known to the interpreter's finders. Errors from failed
// imports wrap it together with the failing name.
var ErrModuleNotFound = errors.New("module not found")
