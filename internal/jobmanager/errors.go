package jobmanager

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

// JobNotFoundError is returned when a Job ID is not in the registry. It
// matches ErrJobNotFound with errors.Is.
type JobNotFoundError struct {
	ID int
}

func (e JobNotFoundError) Error() string {
	return fmt.Sprintf("job %d not found", e.ID)
}

func (e JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// InvalidStateError is returned when attempting an invalid Job state
// transition.
type InvalidStateError struct {
	from JobState
	to   JobState
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("cannot go from %s to %s", e.from, e.to)
}

func NewInvalidStateError(from, to JobState) InvalidStateError {
	return InvalidStateError{from, to}
}
