package jobmanager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Job is a registered Task. It manages the Task's lifecycle and holds the
// metadata shown by the console.
type Job struct {
	id          int
	uuid        string
	module      Module
	task        Task
	state       AtomicJobState
	interrupted atomic.Bool

	// name is the only field that can change after registration.
	name string
	mu   sync.RWMutex

	startTime atomic.Pointer[time.Time]
	err       atomic.Pointer[error]
	cancel    context.CancelFunc

	done chan struct{}
}

// JobInfo is a point-in-time snapshot of a Job.
type JobInfo struct {
	ID          int       `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	State       JobState  `json:"state"`
	StartTime   time.Time `json:"start_time,omitzero"`
	Interrupted bool      `json:"interrupted"`
	Module      Module    `json:"module"`
}

// NewJob creates a Job with the given id that will run task once started.
func NewJob(id int, name string, module Module, task Task) *Job {
	j := &Job{
		id:     id,
		uuid:   uuid.NewString(),
		name:   name,
		module: module,
		task:   task,
		done:   make(chan struct{}),
	}

	j.state.Store(JobStateCreated)

	return j
}

// Start runs the Job's Task in a new goroutine. Trying to start a Job that is
// not in JobStateCreated returns an InvalidStateError.
func (j *Job) Start() error {
	if !j.state.CompareAndSwap(JobStateCreated, JobStateStarting) {
		return NewInvalidStateError(j.state.Load(), JobStateStarting)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	now := time.Now()
	j.startTime.Store(&now)

	j.state.Store(JobStateStarted)

	go func() {
		defer cancel()

		err := j.task.Run(ctx)

		if err != nil && !j.interrupted.Load() {
			j.err.Store(&err)
			j.state.Store(JobStateFailed)
		} else {
			j.state.Store(JobStateStopped)
		}

		close(j.done)
	}()

	return nil
}

// Stop cancels the Job's Task and returns without waiting for it to exit.
// Trying to stop a Job that is not in JobStateStarted returns an
// InvalidStateError.
func (j *Job) Stop() error {
	if !j.state.CompareAndSwap(JobStateStarted, JobStateStopping) {
		return NewInvalidStateError(j.state.Load(), JobStateStopping)
	}

	j.interrupted.Store(true)
	j.cancel()

	return nil
}

func (j *Job) ID() int {
	return j.id
}

// UUID uniquely identifies this run of the Job. Unlike the ID it is never
// reused.
func (j *Job) UUID() string {
	return j.uuid
}

func (j *Job) Name() string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.name
}

func (j *Job) setName(name string) {
	j.mu.Lock()
	j.name = name
	j.mu.Unlock()
}

func (j *Job) State() JobState {
	return j.state.Load()
}

// StartTime returns when the Job was started, or the zero time if it hasn't
// been.
func (j *Job) StartTime() time.Time {
	if t := j.startTime.Load(); t != nil {
		return *t
	}

	return time.Time{}
}

// Err returns the error the Task failed with, if any.
func (j *Job) Err() error {
	if err := j.err.Load(); err != nil {
		return *err
	}

	return nil
}

// Done returns a channel that is closed when the Task has returned.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Info returns a snapshot of the Job.
func (j *Job) Info() JobInfo {
	return JobInfo{
		ID:          j.id,
		UUID:        j.uuid,
		Name:        j.Name(),
		State:       j.state.Load(),
		StartTime:   j.StartTime(),
		Interrupted: j.interrupted.Load(),
		Module:      j.module,
	}
}
