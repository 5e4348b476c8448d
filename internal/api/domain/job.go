package domain

import (
	"errors"
)

const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

var (
	ErrJobNotFound = errors.New("job not found")
)
