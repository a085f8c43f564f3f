package jobmanager_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nixpig/jobconsole/internal/jobmanager"
)

func TestManifest(t *testing.T) {
	t.Parallel()

	t.Run("Test parse valid manifest", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
jobs:
  - name: sleeper
    program: sleep
    args: ["30"]
  - program: sleep
    args: ["60"]
    dir: /tmp
`)

		manifest, err := jobmanager.ParseManifest(data)
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if len(manifest.Jobs) != 2 {
			t.Fatalf("expected 2 jobs: got '%d'", len(manifest.Jobs))
		}

		if manifest.Jobs[0].Name != "sleeper" {
			t.Errorf("expected name: got '%s', want 'sleeper'", manifest.Jobs[0].Name)
		}

		if manifest.Jobs[1].Dir != "/tmp" {
			t.Errorf("expected dir: got '%s', want '/tmp'", manifest.Jobs[1].Dir)
		}
	})

	t.Run("Test missing program", func(t *testing.T) {
		t.Parallel()

		if _, err := jobmanager.ParseManifest([]byte("jobs:\n  - name: x\n")); err == nil {
			t.Errorf("expected to receive error for missing program")
		}
	})

	t.Run("Test invalid yaml", func(t *testing.T) {
		t.Parallel()

		if _, err := jobmanager.ParseManifest([]byte("jobs: [")); err == nil {
			t.Errorf("expected to receive error for invalid yaml")
		}
	})

	t.Run("Test load and start", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "jobs.yaml")
		data := []byte("jobs:\n  - name: a\n    program: sleep\n    args: [\"30\"]\n")

		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}

		manifest, err := jobmanager.LoadManifest(path)
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		m := jobmanager.NewManager(nil)
		defer m.Shutdown()

		ids, err := manifest.Start(m)
		if err != nil {
			t.Fatalf("expected not to receive error: got '%v'", err)
		}

		if len(ids) != 1 || !m.HasJob(ids[0]) {
			t.Errorf("expected started job to be registered: got '%v'", ids)
		}
	})
}
