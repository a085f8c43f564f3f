package jobcontrol

import "strconv"

// Complete returns tab completion candidates for command. words holds the
// words already completed on the line, starting with the command itself.
//
// jobs offers its flags, or job IDs when the previous word is a flag that
// takes a value. kill and rename_job offer job IDs for their first argument
// only.
func (d *Dispatcher) Complete(command string, words []string) []string {
	switch command {
	case "jobs":
		if len(words) > 1 && takesValue(lookupFlag(newJobsFlagSet(), words[len(words)-1])) {
			return d.jobIDStrings()
		}

		return append([]string(nil), jobsFlags...)

	case "kill", "rename_job":
		if len(words) > 1 {
			return nil
		}

		return d.jobIDStrings()

	default:
		return nil
	}
}

func (d *Dispatcher) jobIDStrings() []string {
	ids := d.registry.JobIDs()

	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(id)
	}

	return s
}
