package jobcontrol

import (
	"errors"
	"slices"

	"github.com/nixpig/jobconsole/internal/idrange"
	"github.com/nixpig/jobconsole/internal/jobmanager"
)

// Rename sets the name of an existing job. It returns a
// jobmanager.JobNotFoundError if id is not registered.
//
// Job records are otherwise read-only to the console; the name is the one
// field the Registry lets a Dispatcher change.
func (d *Dispatcher) Rename(id int, name string) error {
	if !d.registry.HasJob(id) {
		return jobmanager.JobNotFoundError{ID: id}
	}

	return d.registry.RenameJob(id, name)
}

// RenameJob runs the rename_job command.
//
//	rename_job <id> <name>
//
// The wrong number of arguments, or an id that isn't a non-negative integer,
// returns an *InvalidInvocationError and a Result carrying the help text.
func (d *Dispatcher) RenameJob(args []string) (*Result, error) {
	res := newResult()

	if slices.Contains(args, "-"+flagHelp) {
		res.OK = false
		res.Help = renameJobHelp()
		return res, nil
	}

	if len(args) != 2 {
		res.OK = false
		res.Help = renameJobHelp()
		return res, &InvalidInvocationError{
			Command: "rename_job",
			Reason:  "expected a job id and a name",
		}
	}

	id, err := idrange.ParseID(args[0])
	if err != nil {
		res.OK = false
		res.Help = renameJobHelp()
		return res, &InvalidInvocationError{
			Command: "rename_job",
			Reason:  "job id must be a non-negative integer",
		}
	}

	if err := d.Rename(id, args[1]); err != nil {
		res.OK = false

		if errors.Is(err, jobmanager.ErrJobNotFound) {
			res.errorf(err, "Job %d does not exist.", id)
		} else {
			res.errorf(err, "Failed to rename job %d: %v", id, err)
		}

		return res, nil
	}

	d.logger.Debug("renamed job", "id", id, "name", args[1])

	res.statusf("Job %d updated", id)

	return res, nil
}
