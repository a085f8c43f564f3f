package jobmanager

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the Jobs to start when a server boots.
//
//	jobs:
//	  - name: tail syslog
//	    program: tail
//	    args: ["-f", "/var/log/syslog"]
type Manifest struct {
	Jobs []ProcessSpec `yaml:"jobs"`
}

// ParseManifest parses YAML manifest data and validates each entry.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest

	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	var errs []error
	for i, spec := range manifest.Jobs {
		if err := spec.validate(); err != nil {
			errs = append(errs, fmt.Errorf("job %d: %w", i, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return ParseManifest(data)
}

// Start runs every Job in the manifest on m and returns their IDs in manifest
// order. It stops at the first Job that fails to start.
func (mf *Manifest) Start(m *Manager) ([]int, error) {
	ids := make([]int, 0, len(mf.Jobs))

	for _, spec := range mf.Jobs {
		id, err := m.RunJob(spec)
		if err != nil {
			return ids, fmt.Errorf("start %q: %w", spec.Program, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
