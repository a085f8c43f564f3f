package jobcontrol_test

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/nixpig/jobconsole/internal/jobmanager"
)

// fakeRegistry is an in-memory Registry that records the order of stop calls.
type fakeRegistry struct {
	jobs    map[int]*jobmanager.JobInfo
	stopped []int
	stopErr map[int]error

	mu sync.Mutex
}

func newFakeRegistry(ids ...int) *fakeRegistry {
	r := &fakeRegistry{
		jobs:    make(map[int]*jobmanager.JobInfo),
		stopErr: make(map[int]error),
	}

	for _, id := range ids {
		r.add(jobmanager.JobInfo{
			ID:        id,
			UUID:      "00000000-0000-0000-0000-00000000000" + string(rune('0'+id%10)),
			Name:      "job",
			State:     jobmanager.JobStateStarted,
			StartTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Module: jobmanager.Module{
				Name: "exec/sleep",
				Options: []jobmanager.Option{
					{Name: "PROGRAM", Value: "sleep", Required: true, Description: "Program to execute"},
					{Name: "ARGS", Value: "30"},
				},
				AdvancedOptions: []jobmanager.Option{
					{Name: "DIR", Value: "/srv", Description: "Working directory of the process"},
					{Name: "ENV", Value: 2},
				},
			},
		})
	}

	return r
}

func (r *fakeRegistry) add(info jobmanager.JobInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[info.ID] = &info
}

func (r *fakeRegistry) HasJob(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.jobs[id]
	return ok
}

func (r *fakeRegistry) JobInfo(id int) (jobmanager.JobInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.jobs[id]
	if !ok {
		return jobmanager.JobInfo{}, jobmanager.JobNotFoundError{ID: id}
	}

	return *info, nil
}

func (r *fakeRegistry) JobIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Sorted(maps.Keys(r.jobs))
}

func (r *fakeRegistry) StopJob(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return jobmanager.JobNotFoundError{ID: id}
	}

	if err := r.stopErr[id]; err != nil {
		return err
	}

	delete(r.jobs, id)
	r.stopped = append(r.stopped, id)

	return nil
}

func (r *fakeRegistry) RenameJob(id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.jobs[id]
	if !ok {
		return jobmanager.JobNotFoundError{ID: id}
	}

	info.Name = name

	return nil
}

func (r *fakeRegistry) stoppedIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.stopped)
}
