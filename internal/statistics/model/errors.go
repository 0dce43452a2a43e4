package model

import "errors"

// ErrInvalidLimit is returned for a head limit outside 1..MaxHeadLimit.
var ErrInvalidLimit = errors.New("invalid limit")

const (
	// DefaultHeadLimit is the number of rows returned when no limit is given.
	DefaultHeadLimit = 5
	// MaxHeadLimit caps the head limit.
	MaxHeadLimit = 100
)
