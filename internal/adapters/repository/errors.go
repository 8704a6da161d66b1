package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrUnavailable    = errors.New("store unavailable")
	ErrEmptyDirectory = errors.New("directory has no activities")
)
