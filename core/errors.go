package core

import "errors"

// Engine errors are local and synchronous: callers surface them as no-op
// feedback, and a failed transition leaves the profile untouched.
var (
	ErrUnknownActivity   = errors.New("unknown activity")
	ErrDuplicateActivity = errors.New("duplicate activity")
	ErrInvalidDuration   = errors.New("invalid duration")
)
