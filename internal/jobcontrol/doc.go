// Package jobcontrol implements the console commands that list, inspect,
// rename and stop background jobs.
//
// The jobs command takes a sequence of flags. Stop actions (-k, -K) run as
// soon as their flag is parsed, in the order given. Listing (-l) and detail
// (-i) are deferred until every flag has been parsed so that a later -v still
// applies to them. Stopping several jobs never aborts on a single bad ID:
// every target gets its own status or error line in the Result.
//
// A Dispatcher never owns job state. It talks to a Registry supplied by the
// host, so tests can substitute a fake.
package jobcontrol
