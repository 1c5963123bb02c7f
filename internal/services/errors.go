package services

import "errors"

// ErrInvalidFilter is wrapped when a dashboard query cannot be applied.
var ErrInvalidFilter = errors.New("invalid filter")
