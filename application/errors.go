package application

import "errors"

// Application errors.
var (
	// ErrNoProvider indicates an agent or crew was built without a chat provider.
	ErrNoProvider = errors.New("chat provider is required")

	// ErrMaxIterations indicates the model kept requesting tools until the
	// iteration limit and never produced an answer.
	ErrMaxIterations = errors.New("max iterations reached without an answer")
)
