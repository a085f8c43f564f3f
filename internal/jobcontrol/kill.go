package jobcontrol

import "slices"

// Kill runs the kill command, which is shorthand for "jobs -k id1 -k id2 ...".
// Each argument becomes its own stop action, so each may be a range spec and
// each fails independently.
func (d *Dispatcher) Kill(args []string) (*Result, error) {
	if slices.Contains(args, "-"+flagHelp) {
		res := newResult()
		res.OK = false
		res.Help = killHelp()
		return res, nil
	}

	if len(args) == 0 {
		res := newResult()
		res.OK = false
		res.Help = killHelp()
		return res, &InvalidInvocationError{
			Command: "kill",
			Reason:  "expected at least one job id",
		}
	}

	return d.Jobs(killArgs(args))
}

func killArgs(ids []string) []string {
	args := make([]string, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, "-"+flagKill, id)
	}

	return args
}
