package jobcontrol

import "fmt"

// InvalidInvocationError is returned when a command is called with the wrong
// number or shape of arguments.
type InvalidInvocationError struct {
	Command string
	Reason  string
}

func (e *InvalidInvocationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

// UnknownFlagError is returned when the jobs grammar does not recognise a
// flag.
type UnknownFlagError struct {
	Err error
}

func (e *UnknownFlagError) Error() string {
	return e.Err.Error()
}

func (e *UnknownFlagError) Unwrap() error {
	return e.Err
}

// UnknownCommandError is returned by Exec for a command the console doesn't
// provide.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Command)
}
