package model

import "errors"

// Sentinel kinds for roster errors. The HTTP layer maps them with errors.Is.
var (
	ErrActivityNotFound = errors.New("Activity not found")                            //nolint:staticcheck // surfaced verbatim as the API detail
	ErrAlreadySignedUp  = errors.New("Student is already signed up for this activity") //nolint:staticcheck // surfaced verbatim as the API detail
	ErrNotSignedUp      = errors.New("Student is not signed up for this activity")     //nolint:staticcheck // surfaced verbatim as the API detail
	ErrActivityFull     = errors.New("Activity is full")                               //nolint:staticcheck // surfaced verbatim as the API detail
	ErrInvalidActivity  = errors.New("invalid activity")
)
