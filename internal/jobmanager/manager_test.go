package jobmanager_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/nixpig/jobconsole/internal/jobmanager"
)

func registerTestJob(
	t *testing.T,
	m *jobmanager.Manager,
	name string,
) int {
	t.Helper()

	id, err := m.Register(name, jobmanager.Module{Name: "test/" + name}, blockingTask())
	if err != nil {
		t.Fatalf("expected not to receive error: got '%v'", err)
	}

	return id
}

// eventually polls cond until it holds or a deadline passes.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met before deadline")
}

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("Test IDs are allocated in order", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)
		defer m.Shutdown()

		for want := range 3 {
			if got := registerTestJob(t, m, "job"); got != want {
				t.Errorf("expected job id: got '%d', want '%d'", got, want)
			}
		}

		if got := m.JobIDs(); !slices.Equal(got, []int{0, 1, 2}) {
			t.Errorf("expected job ids: got '%v', want '%v'", got, []int{0, 1, 2})
		}
	})

	t.Run("Test stop releases ID", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)
		defer m.Shutdown()

		id := registerTestJob(t, m, "job")

		if err := m.StopJob(id); err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if m.HasJob(id) {
			t.Errorf("expected job %d to be released", id)
		}

		if err := m.StopJob(id); !errors.Is(err, jobmanager.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound: got '%v'", err)
		}

		if got := registerTestJob(t, m, "next"); got == id {
			t.Errorf("expected released id not to be reallocated: got '%d'", got)
		}
	})

	t.Run("Test exited task is released", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)
		defer m.Shutdown()

		release := make(chan struct{})

		id, err := m.Register(
			"short",
			jobmanager.Module{Name: "test/short"},
			jobmanager.TaskFunc(func(ctx context.Context) error {
				<-release
				return nil
			}),
		)
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if !m.HasJob(id) {
			t.Errorf("expected job %d to be registered", id)
		}

		close(release)

		eventually(t, func() bool { return !m.HasJob(id) })
	})

	t.Run("Test unknown job", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)

		_, err := m.JobInfo(42)

		var notFound jobmanager.JobNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected JobNotFoundError: got '%v'", err)
		}

		if notFound.ID != 42 {
			t.Errorf("expected missing id: got '%d', want '%d'", notFound.ID, 42)
		}

		if err := m.RenameJob(42, "x"); !errors.Is(err, jobmanager.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound: got '%v'", err)
		}
	})

	t.Run("Test rename", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)
		defer m.Shutdown()

		id := registerTestJob(t, m, "before")

		if err := m.RenameJob(id, "after"); err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		info, err := m.JobInfo(id)
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if info.Name != "after" {
			t.Errorf("expected name: got '%s', want '%s'", info.Name, "after")
		}

		if info.Module.Name != "test/before" {
			t.Errorf(
				"expected module to be unchanged: got '%s'",
				info.Module.Name,
			)
		}
	})

	t.Run("Test jobs snapshot", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)
		defer m.Shutdown()

		registerTestJob(t, m, "a")
		registerTestJob(t, m, "b")

		jobs := m.Jobs()
		if len(jobs) != 2 {
			t.Fatalf("expected 2 jobs: got '%d'", len(jobs))
		}

		if jobs[0].Name != "a" || jobs[1].Name != "b" {
			t.Errorf("expected jobs ordered by id: got '%v'", jobs)
		}
	})

	t.Run("Test shutdown stops everything", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)

		for range 3 {
			registerTestJob(t, m, "job")
		}

		m.Shutdown()

		if ids := m.JobIDs(); len(ids) != 0 {
			t.Errorf("expected no jobs after shutdown: got '%v'", ids)
		}
	})
}

func TestManagerProcessJobs(t *testing.T) {
	t.Parallel()

	t.Run("Test stop running process", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)
		defer m.Shutdown()

		id, err := m.RunJob(jobmanager.ProcessSpec{
			Program: "sleep",
			Args:    []string{"30"},
		})
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		info, err := m.JobInfo(id)
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if info.Name != "exec/sleep" {
			t.Errorf("expected default name: got '%s', want 'exec/sleep'", info.Name)
		}

		job, err := m.GetJob(id)
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if err := m.StopJob(id); err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		waitDone(t, job)

		if job.State() != jobmanager.JobStateStopped {
			t.Errorf(
				"expected state: got '%s', want '%s'",
				job.State(),
				jobmanager.JobStateStopped,
			)
		}
	})

	t.Run("Test non-existent program", func(t *testing.T) {
		t.Parallel()

		m := jobmanager.NewManager(nil)

		if _, err := m.RunJob(jobmanager.ProcessSpec{
			Program: "non-existent-program",
		}); err == nil {
			t.Errorf("expected to receive error: got '%v'", err)
		}

		if _, err := m.RunJob(jobmanager.ProcessSpec{}); err == nil {
			t.Errorf("expected to receive error for empty program")
		}
	})
}
