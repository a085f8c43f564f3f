package jobcontrol

// Command describes a console command provided by this package.
type Command struct {
	Name        string
	Description string
}

var commands = []Command{
	{Name: "jobs", Description: "Displays and manages jobs"},
	{Name: "rename_job", Description: "Rename a job"},
	{Name: "kill", Description: "Kill a job"},
}

// Commands returns the console commands a Dispatcher handles.
func Commands() []Command {
	return append([]Command(nil), commands...)
}

// Exec runs a console command by name.
func (d *Dispatcher) Exec(command string, args []string) (*Result, error) {
	switch command {
	case "jobs":
		return d.Jobs(args)
	case "kill":
		return d.Kill(args)
	case "rename_job":
		return d.RenameJob(args)
	default:
		res := newResult()
		res.OK = false
		return res, &UnknownCommandError{Command: command}
	}
}

// Help returns the help banner for command, or "" if there is no such command.
func Help(command string) string {
	switch command {
	case "jobs":
		return jobsHelp()
	case "kill":
		return killHelp()
	case "rename_job":
		return renameJobHelp()
	default:
		return ""
	}
}
