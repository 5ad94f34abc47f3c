package score

import "errors"

// ErrInvalidLetter is returned when a letter grade cannot be parsed.
var ErrInvalidLetter = errors.New("invalid letter grade")
