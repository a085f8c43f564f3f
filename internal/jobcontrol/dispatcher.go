package jobcontrol

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/nixpig/jobconsole/internal/idrange"
	"github.com/nixpig/jobconsole/internal/jobmanager"
	"github.com/spf13/pflag"
)

var errStopParsing = errors.New("stop parsing")

// Dispatcher runs console job commands against a Registry.
//
// A Dispatcher holds no per-invocation state and is safe to share between
// sessions. It does not synchronise sessions with each other: two sessions
// stopping the same job race in the Registry, and the loser gets an error
// line.
type Dispatcher struct {
	registry Registry
	logger   *slog.Logger
}

func NewDispatcher(registry Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Dispatcher{registry: registry, logger: logger}
}

// jobsPlan holds the deferred part of a jobs invocation.
type jobsPlan struct {
	verbose  bool
	list     bool
	showInfo bool
	infoArg  string
}

// Jobs runs the jobs command.
//
//	jobs [-h] [-l] [-v] [-k <spec>]... [-K] [-i <id>]
//
// With no arguments, or only -v, it lists jobs. Stop flags run immediately in
// the order given; -l and -i are rendered after all flags are parsed.
//
// A non-nil error means the invocation was rejected before any action ran:
// an *UnknownFlagError or an *InvalidInvocationError. Help (-h) is not an
// error but returns a Result with OK false and Help set.
func (d *Dispatcher) Jobs(args []string) (*Result, error) {
	if len(args) == 0 || slices.Equal(args, []string{"-" + flagVerbose}) {
		args = append([]string{"-" + flagList}, args...)
	}

	res := newResult()

	// Check the grammar before anything runs so a typo late in the line can't
	// leave earlier stops half applied.
	help, err := checkJobsArgs(args)
	if help {
		res.OK = false
		res.Help = jobsHelp()
		return res, nil
	}

	if err != nil {
		res.OK = false
		return res, err
	}

	plan := &jobsPlan{}

	if err := newJobsFlagSet().ParseAll(args, func(flag *pflag.Flag, value string) error {
		switch flag.Shorthand {
		case flagVerbose:
			plan.verbose = mustParseBool(value)
		case flagList:
			plan.list = mustParseBool(value)
		case flagKill:
			d.stopSet(res, value)
		case flagKillAll:
			if mustParseBool(value) {
				d.stopAll(res)
			}
		case flagInfo:
			plan.showInfo = true
			plan.infoArg = value
		}

		return nil
	}); err != nil {
		// Unreachable once checkJobsArgs has passed.
		res.OK = false
		return res, classifyParseError(err)
	}

	if plan.list {
		res.Listing = renderJobs(d.registry, plan.verbose)
	}

	if plan.showInfo {
		d.showDetail(res, plan.infoArg, plan.verbose)
	}

	return res, nil
}

// checkJobsArgs parses args without acting on them. It reports whether help
// was requested before any error was found.
func checkJobsArgs(args []string) (bool, error) {
	var help bool

	fs := newJobsFlagSet()

	if err := checkShortForms(fs, args); err != nil {
		return false, err
	}

	err := fs.ParseAll(args, func(flag *pflag.Flag, value string) error {
		if flag.Shorthand == flagHelp {
			help = true
			return errStopParsing
		}

		return nil
	})

	if help {
		return true, nil
	}

	if err != nil {
		return false, classifyParseError(err)
	}

	return false, nil
}

// classifyParseError maps a pflag error to the console's error types. Missing
// values and bad syntax are invalid invocations.
func classifyParseError(err error) error {
	var notExistErr *pflag.NotExistError
	if errors.As(err, &notExistErr) {
		return &UnknownFlagError{Err: err}
	}

	return &InvalidInvocationError{Command: "jobs", Reason: err.Error()}
}

// mustParseBool parses the value pflag passes for a bare boolean flag.
// checkJobsArgs rejects inline values, so this is always NoOptDefVal.
func mustParseBool(value string) bool {
	b, _ := strconv.ParseBool(value)
	return b
}

// stopSet stops every job denoted by spec. Each ID succeeds or fails on its
// own.
func (d *Dispatcher) stopSet(res *Result, spec string) {
	ids, err := idrange.Expand(spec)
	if err != nil && !errors.Is(err, idrange.ErrNoIdentifiers) {
		reportMalformed(res, err)
	}

	if len(ids) == 0 {
		res.OK = false
		res.errorf(idrange.ErrNoIdentifiers, "Please specify valid job identifier(s)")
		return
	}

	res.statusf("Stopping the following job(s): %s", joinIDs(ids))

	for _, id := range ids {
		if !d.registry.HasJob(id) {
			res.errorf(jobmanager.JobNotFoundError{ID: id}, "Invalid job identifier: %d", id)
			continue
		}

		d.stop(res, id)
	}
}

// stopAll stops every job registered when it is called. Jobs stopped by an
// earlier -k are already gone from the registry and are not visited.
func (d *Dispatcher) stopAll(res *Result) {
	res.printf("Stopping all jobs...")

	for _, id := range d.registry.JobIDs() {
		d.stop(res, id)
	}
}

func (d *Dispatcher) stop(res *Result, id int) {
	d.logger.Debug("stopping job", "id", id)

	if err := d.registry.StopJob(id); err != nil {
		d.logger.Warn("stop job", "id", id, "err", err)

		if errors.Is(err, jobmanager.ErrJobNotFound) {
			res.errorf(err, "Invalid job identifier: %d", id)
			return
		}

		res.errorf(err, "Failed to stop job %d: %v", id, err)
		return
	}

	res.statusf("Stopping job %d", id)
}

func reportMalformed(res *Result, err error) {
	errs := []error{err}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		errs = joined.Unwrap()
	}

	for _, e := range errs {
		var malformed *idrange.MalformedRangeError
		if errors.As(e, &malformed) {
			res.errorf(e, "Invalid job range %q: %s", malformed.Token, malformed.Reason)
			continue
		}

		res.errorf(e, "Invalid job range: %v", e)
	}
}

// showDetail resolves a deferred -i. An unknown ID fails the command.
func (d *Dispatcher) showDetail(res *Result, arg string, verbose bool) {
	id, err := idrange.ParseID(strings.TrimSpace(arg))
	if err != nil {
		res.OK = false
		res.errorf(
			&InvalidInvocationError{Command: "jobs", Reason: fmt.Sprintf("invalid job id %q", arg)},
			"Invalid Job ID",
		)
		return
	}

	info, err := d.registry.JobInfo(id)
	if err != nil {
		res.OK = false
		res.errorf(err, "Invalid Job ID")
		return
	}

	res.Detail = renderDetail(info, verbose)
}

func joinIDs(ids []int) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(id)
	}

	return strings.Join(s, ", ")
}
