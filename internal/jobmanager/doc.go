// Package jobmanager provides a registry of background Jobs.
//
// A Job wraps a Task that runs until it returns or is stopped. Every Job is
// identified by a small integer ID which stays stable for its lifetime and is
// released once the Job is stopped or its Task exits.
//
// A Manager creates and tracks Jobs. Apart from the Job's name, which can be
// changed with RenameJob, everything about a registered Job is read-only.
package jobmanager
