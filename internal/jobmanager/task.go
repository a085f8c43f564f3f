package jobmanager

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Task is the unit of work run by a Job. Run must return promptly once ctx is
// cancelled.
type Task interface {
	Run(ctx context.Context) error
}

// TaskFunc adapts an ordinary function to the Task interface.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// ProcessSpec describes a program to run as a Job.
type ProcessSpec struct {
	Name    string   `yaml:"name"`
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
	Dir     string   `yaml:"dir"`
	Env     []string `yaml:"env"`
}

func (s ProcessSpec) validate() error {
	if s.Program == "" {
		return fmt.Errorf("program cannot be empty")
	}

	return nil
}

// module returns the display Module for the process.
func (s ProcessSpec) module() Module {
	return Module{
		Name: "exec/" + filepath.Base(s.Program),
		Options: []Option{
			{
				Name:        "PROGRAM",
				Value:       s.Program,
				Required:    true,
				Description: "Program to execute",
			},
			{
				Name:        "ARGS",
				Value:       strings.Join(s.Args, " "),
				Description: "Arguments passed to the program",
			},
		},
		AdvancedOptions: []Option{
			{
				Name:        "DIR",
				Value:       s.Dir,
				Description: "Working directory of the process",
			},
			{
				Name:        "ENV",
				Value:       len(s.Env),
				Description: "Number of extra environment variables",
			},
		},
	}
}

// processTask runs a program until it exits or the context is cancelled, in
// which case the process is killed.
type processTask struct {
	spec ProcessSpec
}

func (p *processTask) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.spec.Program, p.spec.Args...)
	cmd.Dir = p.spec.Dir

	if len(p.spec.Env) > 0 {
		cmd.Env = append(os.Environ(), p.spec.Env...)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	return cmd.Wait()
}
