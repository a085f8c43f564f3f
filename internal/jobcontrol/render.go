package jobcontrol

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nixpig/jobconsole/internal/jobmanager"
	"github.com/spf13/cast"
)

const (
	timeLayout = "2006-01-02 15:04:05 -0700"
	indent     = "  "
)

// renderJobs renders the job table. Jobs released between listing the IDs and
// reading them are skipped.
func renderJobs(registry Registry, verbose bool) string {
	var jobs []jobmanager.JobInfo

	for _, id := range registry.JobIDs() {
		info, err := registry.JobInfo(id)
		if err != nil {
			// Released since JobIDs was called.
			continue
		}

		jobs = append(jobs, info)
	}

	var b strings.Builder

	b.WriteString("\nJobs\n====\n\n")

	if len(jobs) == 0 {
		b.WriteString("No active jobs.\n")
		return b.String()
	}

	headers := []string{"Id", "Name", "Module", "Started"}
	if verbose {
		headers = append(headers, "State", "UUID", "Options")
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	writeRow(w, headers)
	writeRow(w, underline(headers))

	for _, job := range jobs {
		row := []string{
			fmt.Sprintf("%d", job.ID),
			job.Name,
			job.Module.Name,
			formatTime(job.StartTime),
		}

		if verbose {
			row = append(row, job.State.String(), job.UUID, formatOptions(job.Module.Options))
		}

		writeRow(w, row)
	}

	w.Flush()

	return b.String()
}

// renderDetail renders the report for jobs -i. Advanced options are only
// included when verbose.
func renderDetail(job jobmanager.JobInfo, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nName: %s", job.Module.Name)
	if !job.StartTime.IsZero() {
		fmt.Fprintf(&b, ", started at %s", formatTime(job.StartTime))
	}
	b.WriteString("\n")

	if job.Module.HasOptions() {
		fmt.Fprintf(&b, "\nModule options (%s):\n\n", job.Module.Name)
		writeOptions(&b, job.Module.Options)
	}

	if verbose && len(job.Module.AdvancedOptions) > 0 {
		b.WriteString("\nModule advanced options:\n\n")
		writeOptions(&b, job.Module.AdvancedOptions)
	}

	return b.String()
}

func writeOptions(b *strings.Builder, options []jobmanager.Option) {
	headers := []string{"Name", "Current Setting", "Required", "Description"}

	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)

	writeRow(w, headers)
	writeRow(w, underline(headers))

	for _, opt := range options {
		required := "no"
		if opt.Required {
			required = "yes"
		}

		writeRow(w, []string{opt.Name, cast.ToString(opt.Value), required, opt.Description})
	}

	w.Flush()
}

func writeRow(w *tabwriter.Writer, cells []string) {
	fmt.Fprintf(w, "%s%s\t\n", indent, strings.Join(cells, "\t"))
}

func underline(headers []string) []string {
	lines := make([]string, len(headers))
	for i, h := range headers {
		lines[i] = strings.Repeat("-", len(h))
	}

	return lines
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(timeLayout)
}

func formatOptions(options []jobmanager.Option) string {
	pairs := make([]string, 0, len(options))
	for _, opt := range options {
		pairs = append(pairs, opt.Name+"="+cast.ToString(opt.Value))
	}

	return strings.Join(pairs, " ")
}
