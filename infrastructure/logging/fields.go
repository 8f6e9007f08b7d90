package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// ToolName adds a tool name field.
func ToolName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// Repository adds an owner/repo field.
func Repository(fullName string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("repository", fullName)
	}
}

// CredentialKind adds the resolved credential kind.
func CredentialKind(kind string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("credential", kind)
	}
}

// Role adds an agent role field.
func Role(role string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("role", role)
	}
}

// Task adds a task name field.
func Task(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("task", name)
	}
}

// Count adds a count field.
func Count(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("count", n)
	}
}

// Iteration adds an agent loop iteration field.
func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Failed adds a flag telling whether a tool returned an error string.
func Failed(failed bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("failed", failed)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Operation adds an operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
