package jobcontrol

import (
	"fmt"
	"io"
	"strings"
)

type Level int

const (
	LevelPlain Level = iota
	LevelStatus
	LevelError
)

var (
	levelNames    = []string{"plain", "status", "error"}
	levelPrefixes = []string{"", "[*] ", "[-] "}
)

func (l Level) String() string {
	if int(l) < 0 || int(l) >= len(levelNames) {
		return levelNames[LevelPlain]
	}

	return levelNames[l]
}

// ParseLevel is the inverse of Level.String. Unknown names map to
// LevelPlain.
func ParseLevel(s string) Level {
	for i, name := range levelNames {
		if name == s {
			return Level(i)
		}
	}

	return LevelPlain
}

// Prefix returns the console marker printed before a line of this level.
func (l Level) Prefix() string {
	if int(l) < 0 || int(l) >= len(levelPrefixes) {
		return ""
	}

	return levelPrefixes[l]
}

// Line is a single line of command output. Err is set on error lines so that
// callers can inspect the cause with errors.Is and errors.As.
type Line struct {
	Level Level
	Text  string
	Err   error
}

func (l Line) String() string {
	return l.Level.Prefix() + l.Text
}

// Result is the output of a single console command.
//
// OK is the command's return value as seen by the console: false on parse
// failure, help display or missing required arguments. Failures of individual
// targets in a batch are reported in Lines and leave OK untouched.
type Result struct {
	OK      bool
	Lines   []Line
	Listing string
	Detail  string
	Help    string
}

func newResult() *Result {
	return &Result{OK: true}
}

func (r *Result) printf(format string, a ...any) {
	r.Lines = append(r.Lines, Line{Level: LevelPlain, Text: fmt.Sprintf(format, a...)})
}

func (r *Result) statusf(format string, a ...any) {
	r.Lines = append(r.Lines, Line{Level: LevelStatus, Text: fmt.Sprintf(format, a...)})
}

func (r *Result) errorf(err error, format string, a ...any) {
	r.Lines = append(r.Lines, Line{
		Level: LevelError,
		Text:  fmt.Sprintf(format, a...),
		Err:   err,
	})
}

// Errors returns the errors attached to error lines, in order.
func (r *Result) Errors() []error {
	var errs []error

	for _, line := range r.Lines {
		if line.Err != nil {
			errs = append(errs, line.Err)
		}
	}

	return errs
}

// WriteTo renders the Result the way the console prints it: status and error
// lines first, then the listing, the detail report and finally any help.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	for _, line := range r.Lines {
		b.WriteString(line.String())
		b.WriteByte('\n')
	}

	for _, block := range []string{r.Listing, r.Detail, r.Help} {
		if block == "" {
			continue
		}

		b.WriteString(block)

		if !strings.HasSuffix(block, "\n") {
			b.WriteByte('\n')
		}
	}

	n, err := io.WriteString(w, b.String())

	return int64(n), err
}
