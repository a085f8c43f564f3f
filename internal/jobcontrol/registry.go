package jobcontrol

import "github.com/nixpig/jobconsole/internal/jobmanager"

// Registry is the job registry consumed by a Dispatcher.
//
// JobIDs is a snapshot and may be stale by the time it is used, so every other
// method must tolerate IDs that have since been released by returning an
// error matching jobmanager.ErrJobNotFound.
//
// RenameJob is the only mutation a Dispatcher performs on a job record.
type Registry interface {
	HasJob(id int) bool
	JobInfo(id int) (jobmanager.JobInfo, error)
	JobIDs() []int
	StopJob(id int) error
	RenameJob(id int, name string) error
}

var _ Registry = (*jobmanager.Manager)(nil)
