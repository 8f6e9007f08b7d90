package agent

import "errors"

// Domain errors for personas, tasks and runs.
var (
	// ErrEmptyRole indicates a persona was defined without a role.
	ErrEmptyRole = errors.New("persona role cannot be empty")

	// ErrDuplicateRole indicates two personas share a role.
	ErrDuplicateRole = errors.New("duplicate persona role")

	// ErrUnknownRole indicates a task is assigned to a role no persona plays.
	ErrUnknownRole = errors.New("unknown persona role")

	// ErrEmptyTask indicates a task without a description.
	ErrEmptyTask = errors.New("task description cannot be empty")

	// ErrNoTasks indicates a squad with nothing to do.
	ErrNoTasks = errors.New("squad has no tasks")

	// ErrRunTerminated indicates an operation on a finished run.
	ErrRunTerminated = errors.New("run already terminated")
)
