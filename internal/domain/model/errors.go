package model

import "errors"

// ErrInvalidArgument indicates malformed report or profile construction input.
var ErrInvalidArgument = errors.New("invalid argument")
