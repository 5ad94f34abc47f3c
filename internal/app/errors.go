package service

import "errors"

// ErrInvalidState indicates an operation that needs an initialized session.
var ErrInvalidState = errors.New("invalid state")
