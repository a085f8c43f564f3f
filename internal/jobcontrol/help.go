package jobcontrol

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// jobsUsage lists the jobs flags by shorthand, the only spelling the grammar
// accepts.
func jobsUsage() string {
	var b strings.Builder

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	b.WriteString("OPTIONS:\n\n")

	newJobsFlagSet().VisitAll(func(f *pflag.Flag) {
		name, usage := pflag.UnquoteUsage(f)

		flag := "-" + f.Shorthand
		if name != "" {
			flag += " <" + name + ">"
		}

		fmt.Fprintf(w, "    %s\t%s\n", flag, usage)
	})

	w.Flush()

	return b.String()
}

func jobsHelp() string {
	var b strings.Builder

	b.WriteString("Usage: jobs [options]\n\n")
	b.WriteString("Active job manipulation and interaction.\n\n")
	b.WriteString(jobsUsage())

	return b.String()
}

func killHelp() string {
	var b strings.Builder

	b.WriteString("Usage: kill <job1> [job2 ...]\n\n")
	b.WriteString("Equivalent to 'jobs -k job1 -k job2 ...'\n\n")
	b.WriteString(jobsUsage())

	return b.String()
}

func renameJobHelp() string {
	return `Usage: rename_job [ID] [Name]

Example: rename_job 0 "meterpreter HTTPS special"

Rename a job that's currently active.
You may use the jobs command to see what jobs are available.
`
}
