package domain

import "errors"

// ErrMissingBirth is returned when a request carries no birth identifier.
var ErrMissingBirth = errors.New("birth is required")

// ErrInvalidPillar is returned when text is not one of the 60 cycle pillars.
var ErrInvalidPillar = errors.New("invalid pillar")

// ErrReadingNotFound is returned when a recorded reading id cannot be found.
var ErrReadingNotFound = errors.New("reading not found")

// ErrHistoryDisabled is returned by history queries when no recorder is configured.
var ErrHistoryDisabled = errors.New("reading history is disabled")
