package jobmanager

import (
	"fmt"
	"log/slog"
	"maps"
	"os/exec"
	"slices"
	"sync"
)

// Manager is the registry of running Jobs.
type Manager struct {
	// NOTE: IDs come from a counter and are not handed out again in the
	// lifetime of a Manager. A released ID is simply never allocated twice,
	// which keeps stale console output from pointing at a different job.
	jobs   map[int]*Job
	nextID int
	logger *slog.Logger

	mu sync.Mutex
}

// NewManager creates an empty Manager.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Manager{
		jobs:   make(map[int]*Job),
		logger: logger,
	}
}

// RunJob starts a process described by spec and returns the new Job's ID.
func (m *Manager) RunJob(spec ProcessSpec) (int, error) {
	if err := spec.validate(); err != nil {
		return 0, err
	}

	if _, err := exec.LookPath(spec.Program); err != nil {
		return 0, fmt.Errorf("find program: %w", err)
	}

	name := spec.Name
	if name == "" {
		name = spec.module().Name
	}

	return m.Register(name, spec.module(), &processTask{spec: spec})
}

// Register starts task as a new Job and returns its ID. The Job is released
// from the registry when it is stopped or task returns.
func (m *Manager) Register(name string, module Module, task Task) (int, error) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	job := NewJob(id, name, module, task)
	m.jobs[id] = job
	m.mu.Unlock()

	if err := job.Start(); err != nil {
		m.release(job)
		return 0, err
	}

	m.logger.Info("job started", "id", id, "uuid", job.UUID(), "name", name)

	go func() {
		<-job.Done()

		if m.release(job) {
			m.logger.Info(
				"job exited",
				"id", id,
				"state", job.State(),
				"err", job.Err(),
			)
		}
	}()

	return id, nil
}

// HasJob reports whether id is currently registered.
func (m *Manager) HasJob(id int) bool {
	m.mu.Lock()
	_, exists := m.jobs[id]
	m.mu.Unlock()

	return exists
}

// GetJob returns the Job with the given id or a JobNotFoundError.
func (m *Manager) GetJob(id int) (*Job, error) {
	m.mu.Lock()
	job, exists := m.jobs[id]
	m.mu.Unlock()

	if !exists {
		return nil, JobNotFoundError{ID: id}
	}

	return job, nil
}

// JobInfo returns a snapshot of the Job with the given id or a
// JobNotFoundError.
func (m *Manager) JobInfo(id int) (JobInfo, error) {
	job, err := m.GetJob(id)
	if err != nil {
		return JobInfo{}, err
	}

	return job.Info(), nil
}

// JobIDs returns the IDs registered at the time of the call in ascending
// order.
func (m *Manager) JobIDs() []int {
	m.mu.Lock()
	ids := slices.Sorted(maps.Keys(m.jobs))
	m.mu.Unlock()

	return ids
}

// Jobs returns snapshots of every registered Job ordered by ID.
func (m *Manager) Jobs() []JobInfo {
	m.mu.Lock()
	jobs := slices.Collect(maps.Values(m.jobs))
	m.mu.Unlock()

	infos := make([]JobInfo, 0, len(jobs))
	for _, job := range jobs {
		infos = append(infos, job.Info())
	}

	slices.SortFunc(infos, func(a, b JobInfo) int {
		return a.ID - b.ID
	})

	return infos
}

// StopJob stops the Job with the given id and releases its ID. It returns a
// JobNotFoundError if the id isn't registered, or an InvalidStateError if the
// Job isn't running.
//
// The Task is cancelled but StopJob does not wait for it to return.
func (m *Manager) StopJob(id int) error {
	job, err := m.GetJob(id)
	if err != nil {
		return err
	}

	if err := job.Stop(); err != nil {
		return err
	}

	m.release(job)

	m.logger.Info("job stopped", "id", id, "uuid", job.UUID())

	return nil
}

// RenameJob sets the name of the Job with the given id.
//
// The name is the only property of a registered Job that can be changed, and
// this is the only way to change it.
func (m *Manager) RenameJob(id int, name string) error {
	job, err := m.GetJob(id)
	if err != nil {
		return err
	}

	old := job.Name()
	job.setName(name)

	m.logger.Info("job renamed", "id", id, "from", old, "to", name)

	return nil
}

// Shutdown makes a 'best effort' attempt to stop every running Job and waits
// for their Tasks to return.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	jobs := slices.Collect(maps.Values(m.jobs))
	m.mu.Unlock()

	var wg sync.WaitGroup

	for _, job := range jobs {
		wg.Go(func() {
			if err := m.StopJob(job.ID()); err != nil {
				// Already stopping or exited on its own.
				m.logger.Debug("stop on shutdown", "id", job.ID(), "err", err)
			}

			<-job.Done()
		})
	}

	wg.Wait()
}

// release removes job from the registry if it is still registered under its
// ID. It reports whether anything was removed.
func (m *Manager) release(job *Job) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.jobs[job.id] != job {
		return false
	}

	delete(m.jobs, job.id)

	return true
}
