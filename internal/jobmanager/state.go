package jobmanager

import "sync/atomic"

type JobState int

const (
	// JobStateUnknown is the zero value for a (possibly absent) JobState.
	JobStateUnknown JobState = iota

	// JobStateCreated indicates the job has been registered but its task has
	// not been started.
	JobStateCreated

	// JobStateStarting indicates Start() has been called but the task is not
	// yet running.
	JobStateStarting

	// JobStateStarted indicates the task is running. Only a started job can be
	// stopped.
	JobStateStarted

	// JobStateStopping indicates the task has been asked to stop but has not
	// returned yet.
	JobStateStopping

	// JobStateStopped indicates the task has returned.
	JobStateStopped

	// JobStateFailed indicates the task could not be started or returned an
	// error without being stopped.
	JobStateFailed
)

// NOTE: Keep in sync with the JobState values above.
var jobStates = []string{
	"Unknown",
	"Created",
	"Starting",
	"Started",
	"Stopping",
	"Stopped",
	"Failed",
}

func (s JobState) String() string {
	if int(s) < 0 || int(s) >= len(jobStates) {
		return jobStates[0]
	}

	return jobStates[s]
}

// MarshalText renders the state by name in JSON output.
func (s JobState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AtomicJobState wraps an atomic.Int32 so state transitions can be validated
// with CompareAndSwap instead of a mutex.
type AtomicJobState struct {
	v atomic.Int32
}

func (a *AtomicJobState) Load() JobState {
	return JobState(a.v.Load())
}

func (a *AtomicJobState) Store(s JobState) {
	a.v.Store(int32(s))
}

func (a *AtomicJobState) CompareAndSwap(o, n JobState) bool {
	return a.v.CompareAndSwap(int32(o), int32(n))
}
