package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrMatchCompleted        = errors.New("match already completed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
