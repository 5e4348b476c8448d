package domain

import "errors"

var (
	// ErrUserIDRequired is the precondition violation handlers return
	// before doing any work; unlike handler failures it surfaces as a
	// real error, and the dispatcher must guard against it so the job
	// record does not stay pending.
	ErrUserIDRequired = errors.New("user id is required")

	// ErrUserNotFound is returned when the user document does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrJobNotFound is returned when a job record cannot be found
	ErrJobNotFound = errors.New("job not found")
)
