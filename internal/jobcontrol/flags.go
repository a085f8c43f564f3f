package jobcontrol

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const (
	flagHelp    = "h"
	flagKill    = "k"
	flagKillAll = "K"
	flagInfo    = "i"
	flagList    = "l"
	flagVerbose = "v"
)

// jobsFlags lists the jobs flags in the order they are offered for
// completion.
var jobsFlags = []string{
	"-" + flagHelp,
	"-" + flagKill,
	"-" + flagKillAll,
	"-" + flagInfo,
	"-" + flagList,
	"-" + flagVerbose,
}

// newJobsFlagSet builds the grammar for the jobs command. A new FlagSet is
// built per invocation so concurrent sessions never share parse state.
//
// The FlagSet is only used with ParseAll, which hands every flag occurrence to
// a callback in order and never stores values, so the variables here are only
// placeholders for usage output.
func newJobsFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("jobs", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolP("help", flagHelp, false, "Help banner.")
	fs.StringArrayP("kill", flagKill, nil, "Terminate jobs by job ID and/or `range`.")
	fs.BoolP("kill-all", flagKillAll, false, "Terminate all running jobs.")
	fs.StringP("info", flagInfo, "", "Lists detailed information about a running `job`.")
	fs.BoolP("list", flagList, false, "List all running jobs.")
	fs.BoolP("verbose", flagVerbose, false, "Print more detailed info.  Use with -i and -l")

	return fs
}

// lookupFlag finds a jobs flag by its command line spelling, e.g. "-k".
// Long names exist only for usage output and are not part of the grammar.
func lookupFlag(fs *pflag.FlagSet, word string) *pflag.Flag {
	if len(word) != 2 || word[0] != '-' || word[1] == '-' {
		return nil
	}

	return fs.ShorthandLookup(word[1:])
}

// checkShortForms rejects spellings pflag accepts but the jobs grammar does
// not: long flags, and inline values on flags that take none (-K=false).
// Nothing after -h is checked. Words are walked the way pflag walks them, so
// a value consumed by -k or -i is never mistaken for a flag.
func checkShortForms(fs *pflag.FlagSet, args []string) error {
	for i := 0; i < len(args); i++ {
		word := args[i]

		switch {
		case word == "--":
			return nil
		case len(word) > 2 && word[:2] == "--":
			return &UnknownFlagError{Err: fmt.Errorf("unknown flag: %s", word)}
		case len(word) < 2 || word[0] != '-':
			continue
		}

		group := word[1:]

		for j := 0; j < len(group); j++ {
			f := fs.ShorthandLookup(group[j : j+1])
			if f == nil {
				// Left for pflag to report.
				break
			}

			if takesValue(f) {
				if j == len(group)-1 {
					i++
				}

				break
			}

			if j+1 < len(group) && group[j+1] == '=' {
				return &InvalidInvocationError{
					Command: "jobs",
					Reason:  fmt.Sprintf("-%s does not take a value", f.Shorthand),
				}
			}

			// Parsing stops at -h.
			if f.Shorthand == flagHelp {
				return nil
			}
		}
	}

	return nil
}

// takesValue reports whether f consumes an argument.
func takesValue(f *pflag.Flag) bool {
	return f != nil && f.NoOptDefVal == ""
}
