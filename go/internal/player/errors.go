package player

import "errors"

// ErrPlayerNotFound is returned when no player row matches the requested id
var ErrPlayerNotFound = errors.New("player not found")

// ErrInvalidInput is returned when a create request fails validation
var ErrInvalidInput = errors.New("invalid input")
